package commands

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

func newTestRunner(t *testing.T, commands map[string][]string) *Runner {
	t.Helper()
	root, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	r, err := NewRunner(root, commands)
	require.NoError(t, err)
	return r
}

func TestRun_CapturesOutput(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix shell utilities")
	}

	r := newTestRunner(t, map[string][]string{
		"hello": {"echo", "hello world"},
	})

	res, err := r.Run(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Name)
	assert.Zero(t, res.ExitCode)
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.GreaterOrEqual(t, res.DurationMs, int64(0))
}

func TestRun_NonZeroExitIsAResult(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix shell utilities")
	}

	r := newTestRunner(t, map[string][]string{
		"fail": {"false"},
	})

	res, err := r.Run(context.Background(), "fail")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, map[string][]string{
		"test": {"go", "test", "./..."},
		"lint": {"golangci-lint", "run"},
	})

	_, err := r.Run(context.Background(), "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "deploy"`)
	assert.Contains(t, err.Error(), "lint, test")
}

func TestRun_MissingBinary(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, map[string][]string{
		"ghost": {"definitely-not-a-real-binary-9000"},
	})

	_, err := r.Run(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestNewRunner_RejectsEmptyArgv(t *testing.T) {
	t.Parallel()

	root, err := workspace.New(t.TempDir())
	require.NoError(t, err)

	_, err = NewRunner(root, map[string][]string{"bad": {}})
	assert.Error(t, err)
}

func TestNames_Sorted(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, map[string][]string{
		"zz": {"true"},
		"aa": {"true"},
		"mm": {"true"},
	})

	assert.Equal(t, []string{"aa", "mm", "zz"}, r.Names())
}
