// Package commands executes only the commands predefined in configuration.
// Arbitrary command lines are never accepted from tool callers: a caller
// names a configured command, and the stored argv is executed directly,
// never through a shell.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 2 * time.Minute

// Result reports one completed execution. A non-zero exit code is a
// result, not a Go error; only failures to start the command error out.
type Result struct {
	Name       string `json:"name"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMs int64  `json:"duration_ms"`
}

// Runner executes predefined commands with the workspace root as working
// directory.
type Runner struct {
	root     *workspace.Root
	commands map[string][]string // name -> argv
	timeout  time.Duration
}

// NewRunner creates a Runner over the given command table. Entries with an
// empty argv are rejected.
func NewRunner(root *workspace.Root, commands map[string][]string) (*Runner, error) {
	for name, argv := range commands {
		if len(argv) == 0 {
			return nil, fmt.Errorf("command %q has an empty argv", name)
		}
	}
	return &Runner{
		root:     root,
		commands: commands,
		timeout:  DefaultTimeout,
	}, nil
}

// Names returns the configured command names, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named command. Unknown names fail with an error listing
// the configured commands.
func (r *Runner) Run(ctx context.Context, name string) (*Result, error) {
	argv, ok := r.commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q (configured: %s)", name, strings.Join(r.Names(), ", "))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.root.Dir()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("command", name).Strs("argv", argv).Msg("running predefined command")
	start := time.Now()
	err := cmd.Run()
	took := time.Since(start)

	result := &Result{
		Name:       name,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMs: took.Milliseconds(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	case ctx.Err() != nil:
		return nil, fmt.Errorf("command %q timed out after %s", name, r.timeout)
	default:
		return nil, fmt.Errorf("failed to run command %q: %w", name, err)
	}
}
