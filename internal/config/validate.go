package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrEmptyRoot indicates a missing workspace root
	ErrEmptyRoot = errors.New("empty workspace root")

	// ErrInvalidMaxFiles indicates an invalid analysis file limit
	ErrInvalidMaxFiles = errors.New("invalid max_files")

	// ErrInvalidCommand indicates a malformed predefined command
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInvalidLogLevel indicates an unknown log level name
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Root) == "" {
		errs = append(errs, fmt.Errorf("%w: root is required", ErrEmptyRoot))
	}

	if cfg.Analysis.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_files must be positive, got %d", ErrInvalidMaxFiles, cfg.Analysis.MaxFiles))
	}

	for name, argv := range cfg.Commands {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("%w: command name cannot be empty", ErrInvalidCommand))
		}
		if len(argv) == 0 {
			errs = append(errs, fmt.Errorf("%w: command %q has an empty argv", ErrInvalidCommand, name))
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
