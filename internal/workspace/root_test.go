package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T) *Root {
	t.Helper()
	r, err := New(t.TempDir())
	require.NoError(t, err)
	return r
}

func TestNew_RejectsMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNew_RejectsFile(t *testing.T) {
	t.Parallel()

	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	_, err := New(f)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)

	tests := []struct {
		name    string
		path    string
		want    string // relative to root; "" means error expected
		escapes bool
	}{
		{name: "simple relative", path: "a/b.py", want: "a/b.py"},
		{name: "dot segments collapse", path: "a/./b/../c.py", want: "a/c.py"},
		{name: "parent escape", path: "../outside.py", escapes: true},
		{name: "sneaky escape", path: "a/../../outside.py", escapes: true},
		{name: "empty path", path: "", escapes: true},
		{name: "root itself", path: ".", want: "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			abs, err := r.Resolve(tt.path)
			if tt.escapes {
				var escErr *EscapeError
				require.ErrorAs(t, err, &escErr)
				assert.Equal(t, tt.path, escErr.Path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Rel(abs))
		})
	}
}

func TestResolve_AbsoluteInsideRoot(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)

	abs, err := r.Resolve(filepath.Join(r.Dir(), "sub", "f.py"))
	require.NoError(t, err)
	assert.Equal(t, "sub/f.py", r.Rel(abs))
}

func TestResolve_AbsoluteOutsideRoot(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)

	_, err := r.Resolve(string(filepath.Separator) + "etc")
	var escErr *EscapeError
	assert.ErrorAs(t, err, &escErr)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "m.py"), []byte("x = 1\n"), 0o644))

	data, err := r.ReadFile("m.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))

	_, err = r.ReadFile("missing.py")
	assert.Error(t, err)
}

func TestPythonFiles(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)
	write := func(rel string) {
		abs := filepath.Join(r.Dir(), filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, nil, 0o644))
	}
	write("main.py")
	write("pkg/__init__.py")
	write("pkg/mod.py")
	write("pkg/__pycache__/mod.cpython-312.pyc")
	write("pkg/__pycache__/stale.py")
	write(".hidden/secret.py")
	write("venv/lib/thing.py")
	write("build/gen.py")
	write("notes.txt")

	files, err := r.PythonFiles([]string{"build/**"})
	require.NoError(t, err)

	assert.Equal(t, []string{"main.py", "pkg/__init__.py", "pkg/mod.py"}, files)
}

func TestPythonFiles_GitignoreRespected(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)
	write := func(rel, content string) {
		abs := filepath.Join(r.Dir(), filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	write(".gitignore", `# build artifacts
generated.py
dist/
/top_only.py
!kept.py
`)
	write("kept.py", "")
	write("generated.py", "")
	write("sub/generated.py", "")
	write("dist/out.py", "")
	write("top_only.py", "")
	write("sub/top_only.py", "")

	files, err := r.PythonFiles(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"kept.py", "sub/top_only.py"}, files)
}

func TestPythonFiles_BadPattern(t *testing.T) {
	t.Parallel()

	r := newTestRoot(t)
	_, err := r.PythonFiles([]string{"[unclosed"})
	assert.Error(t, err)
}
