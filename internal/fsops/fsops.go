// Package fsops implements the scoped file-system operations exposed as
// tools: create a directory, remove a path, rename a path in place, and
// move a path. Every operation validates its arguments against the
// workspace root before touching the disk.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

// OpError is a user-correctable operation failure: a bad argument or a
// precondition on the file system that does not hold. Internal failures
// (permissions, I/O) are returned as plain wrapped errors instead.
type OpError struct {
	Op      string // operation name, e.g. "create_dir"
	Path    string // offending path as supplied
	Message string
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s (path: %q)", e.Op, e.Message, e.Path)
}

// Result reports one completed operation. Paths are root-relative.
type Result struct {
	Operation string `json:"operation"`
	Path      string `json:"path"`
	Target    string `json:"target,omitempty"`
}

// Ops executes file-system operations inside one workspace root.
type Ops struct {
	root *workspace.Root
}

// New creates an Ops bound to the given root.
func New(root *workspace.Root) *Ops {
	return &Ops{root: root}
}

// CreateDir creates a new directory, including missing parents. The
// directory itself must not already exist.
func (o *Ops) CreateDir(path string) (*Result, error) {
	abs, err := o.root.Resolve(path)
	if err != nil {
		return nil, &OpError{Op: "create_dir", Path: path, Message: err.Error()}
	}
	if _, err := os.Stat(abs); err == nil {
		return nil, &OpError{Op: "create_dir", Path: path, Message: "path already exists"}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Result{Operation: "create_dir", Path: o.root.Rel(abs)}, nil
}

// Remove deletes a file or directory tree. The path must exist.
func (o *Ops) Remove(path string) (*Result, error) {
	abs, err := o.root.Resolve(path)
	if err != nil {
		return nil, &OpError{Op: "remove_path", Path: path, Message: err.Error()}
	}
	if abs == o.root.Dir() {
		return nil, &OpError{Op: "remove_path", Path: path, Message: "refusing to remove the workspace root"}
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, &OpError{Op: "remove_path", Path: path, Message: "path does not exist"}
	}
	if err := os.RemoveAll(abs); err != nil {
		return nil, fmt.Errorf("failed to remove path: %w", err)
	}
	return &Result{Operation: "remove_path", Path: o.root.Rel(abs)}, nil
}

// Rename gives a file or directory a new base name in its current
// directory. newName must be a bare name, not a path.
func (o *Ops) Rename(path, newName string) (*Result, error) {
	abs, err := o.root.Resolve(path)
	if err != nil {
		return nil, &OpError{Op: "rename_path", Path: path, Message: err.Error()}
	}
	if newName == "" || newName != filepath.Base(newName) || newName == "." || newName == ".." {
		return nil, &OpError{Op: "rename_path", Path: newName, Message: "new name must be a bare file name"}
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, &OpError{Op: "rename_path", Path: path, Message: "path does not exist"}
	}
	target := filepath.Join(filepath.Dir(abs), newName)
	if _, err := os.Stat(target); err == nil {
		return nil, &OpError{Op: "rename_path", Path: newName, Message: "target already exists"}
	}
	if err := os.Rename(abs, target); err != nil {
		return nil, fmt.Errorf("failed to rename path: %w", err)
	}
	return &Result{Operation: "rename_path", Path: o.root.Rel(abs), Target: o.root.Rel(target)}, nil
}

// Move relocates a file or directory to a new path inside the root,
// creating missing parent directories of the destination. The source must
// exist and the destination must not.
func (o *Ops) Move(src, dst string) (*Result, error) {
	absSrc, err := o.root.Resolve(src)
	if err != nil {
		return nil, &OpError{Op: "move_path", Path: src, Message: err.Error()}
	}
	absDst, err := o.root.Resolve(dst)
	if err != nil {
		return nil, &OpError{Op: "move_path", Path: dst, Message: err.Error()}
	}
	if _, err := os.Stat(absSrc); err != nil {
		return nil, &OpError{Op: "move_path", Path: src, Message: "source does not exist"}
	}
	if _, err := os.Stat(absDst); err == nil {
		return nil, &OpError{Op: "move_path", Path: dst, Message: "destination already exists"}
	}
	if err := os.MkdirAll(filepath.Dir(absDst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := os.Rename(absSrc, absDst); err != nil {
		return nil, fmt.Errorf("failed to move path: %w", err)
	}
	return &Result{Operation: "move_path", Path: o.root.Rel(absSrc), Target: o.root.Rel(absDst)}, nil
}
