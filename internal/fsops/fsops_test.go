package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

func newTestOps(t *testing.T) *Ops {
	t.Helper()
	root, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	return New(root)
}

func writeFile(t *testing.T, o *Ops, rel string) {
	t.Helper()
	abs := filepath.Join(o.root.Dir(), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte("data"), 0o644))
}

func TestCreateDir(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)

	res, err := o.CreateDir("a/b/c")
	require.NoError(t, err)
	assert.Equal(t, &Result{Operation: "create_dir", Path: "a/b/c"}, res)

	info, err := os.Stat(filepath.Join(o.root.Dir(), "a", "b", "c"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateDir_ExistingPath(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)
	_, err := o.CreateDir("a")
	require.NoError(t, err)

	_, err = o.CreateDir("a")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "create_dir", opErr.Op)
	assert.Equal(t, "path already exists", opErr.Message)
}

func TestCreateDir_OutsideRoot(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)

	_, err := o.CreateDir("../evil")
	var opErr *OpError
	assert.ErrorAs(t, err, &opErr)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)
	writeFile(t, o, "dir/f.py")

	res, err := o.Remove("dir")
	require.NoError(t, err)
	assert.Equal(t, "dir", res.Path)

	_, err = os.Stat(filepath.Join(o.root.Dir(), "dir"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_MissingPath(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)

	_, err := o.Remove("ghost")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "path does not exist", opErr.Message)
}

func TestRemove_RootRefused(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)

	_, err := o.Remove(".")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Contains(t, opErr.Message, "workspace root")
}

func TestRename(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)
	writeFile(t, o, "pkg/old.py")

	res, err := o.Rename("pkg/old.py", "new.py")
	require.NoError(t, err)
	assert.Equal(t, &Result{Operation: "rename_path", Path: "pkg/old.py", Target: "pkg/new.py"}, res)

	_, err = os.Stat(filepath.Join(o.root.Dir(), "pkg", "new.py"))
	assert.NoError(t, err)
}

func TestRename_Invalid(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)
	writeFile(t, o, "a.py")
	writeFile(t, o, "b.py")

	tests := []struct {
		name    string
		path    string
		newName string
	}{
		{name: "target exists", path: "a.py", newName: "b.py"},
		{name: "name is a path", path: "a.py", newName: "sub/c.py"},
		{name: "empty name", path: "a.py", newName: ""},
		{name: "source missing", path: "ghost.py", newName: "c.py"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Rename(tt.path, tt.newName)
			var opErr *OpError
			assert.ErrorAs(t, err, &opErr)
		})
	}
}

func TestMove(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)
	writeFile(t, o, "src/f.py")

	res, err := o.Move("src/f.py", "dst/deep/f.py")
	require.NoError(t, err)
	assert.Equal(t, &Result{Operation: "move_path", Path: "src/f.py", Target: "dst/deep/f.py"}, res)

	_, err = os.Stat(filepath.Join(o.root.Dir(), "dst", "deep", "f.py"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(o.root.Dir(), "src", "f.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestMove_Preconditions(t *testing.T) {
	t.Parallel()

	o := newTestOps(t)
	writeFile(t, o, "a.py")
	writeFile(t, o, "b.py")

	_, err := o.Move("ghost.py", "c.py")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "source does not exist", opErr.Message)

	_, err = o.Move("a.py", "b.py")
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "destination already exists", opErr.Message)

	_, err = o.Move("a.py", "../out.py")
	assert.ErrorAs(t, err, &opErr)
}
