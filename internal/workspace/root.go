// Package workspace anchors every file-touching tool to one root directory.
// All tool-facing paths are relative; Resolve maps them to absolute paths and
// rejects anything that would land outside the root, so handlers never need
// their own traversal checks.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EscapeError reports a path that resolves outside the workspace root.
type EscapeError struct {
	Path string // path as supplied by the caller
}

// Error implements the error interface.
func (e *EscapeError) Error() string {
	return fmt.Sprintf("path %q is outside the workspace root", e.Path)
}

// Root is a validated workspace root directory.
type Root struct {
	dir string // absolute, symlink-resolved
}

// New creates a Root for the given directory. The directory must exist.
func New(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	// Resolve symlinks once here so Resolve can compare lexically.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %q is not a directory", dir)
	}
	return &Root{dir: resolved}, nil
}

// Dir returns the absolute root directory.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve maps a caller-supplied path to an absolute path inside the root.
// Absolute inputs are accepted only when they already point into the root.
// Returns *EscapeError when the path lands outside.
func (r *Root) Resolve(p string) (string, error) {
	if p == "" {
		return "", &EscapeError{Path: p}
	}
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.dir, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(r.dir, abs)
	if err != nil {
		return "", &EscapeError{Path: p}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &EscapeError{Path: p}
	}
	return abs, nil
}

// Rel converts an absolute path inside the root back to a slash-separated
// relative path for tool output.
func (r *Root) Rel(abs string) string {
	rel, err := filepath.Rel(r.dir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// ReadFile reads a file addressed by a root-relative (or in-root absolute)
// path.
func (r *Root) ReadFile(p string) ([]byte, error) {
	abs, err := r.Resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.Rel(abs), err)
	}
	return data, nil
}
