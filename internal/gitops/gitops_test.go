package gitops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

func newTestRepo(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "tester"
	cfg.User.Email = "tester@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	root, err := workspace.New(dir)
	require.NoError(t, err)
	return NewService(root), root.Dir()
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestStatus_NotARepository(t *testing.T) {
	t.Parallel()

	root, err := workspace.New(t.TempDir())
	require.NoError(t, err)

	_, err = NewService(root).Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestStatus_UntrackedFiles(t *testing.T) {
	t.Parallel()

	svc, dir := newTestRepo(t)
	writeFile(t, dir, "a.py", "x = 1\n")

	status, err := svc.Status()
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py"}, status.Untracked)
	assert.Empty(t, status.Staged)
	assert.False(t, status.Clean)
}

func TestAddAndCommit(t *testing.T) {
	t.Parallel()

	svc, dir := newTestRepo(t)
	writeFile(t, dir, "pkg/mod.py", "y = 2\n")

	require.NoError(t, svc.Add([]string{"pkg/mod.py"}))

	status, err := svc.Status()
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/mod.py"}, status.Staged)

	res, err := svc.Commit("add module", false)
	require.NoError(t, err)
	assert.Len(t, res.Hash, 40)
	assert.Equal(t, "add module", res.Message)

	status, err = svc.Status()
	require.NoError(t, err)
	assert.True(t, status.Clean)
}

func TestAdd_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestRepo(t)

	assert.Error(t, svc.Add(nil))
	assert.Error(t, svc.Add([]string{"../outside.py"}))
}

func TestCommit_RequiresMessage(t *testing.T) {
	t.Parallel()

	svc, _ := newTestRepo(t)

	_, err := svc.Commit("", false)
	assert.Error(t, err)
}

func TestCommitAll_StagesTrackedChanges(t *testing.T) {
	t.Parallel()

	svc, dir := newTestRepo(t)
	writeFile(t, dir, "a.py", "x = 1\n")
	require.NoError(t, svc.Add([]string{"a.py"}))
	_, err := svc.Commit("initial", false)
	require.NoError(t, err)

	writeFile(t, dir, "a.py", "x = 2\n")
	_, err = svc.Commit("update", true)
	require.NoError(t, err)

	status, err := svc.Status()
	require.NoError(t, err)
	assert.True(t, status.Clean)
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	svc, dir := newTestRepo(t)
	writeFile(t, dir, "a.py", "x = 1\n")
	require.NoError(t, svc.Add([]string{"a.py"}))
	_, err := svc.Commit("initial", false)
	require.NoError(t, err)

	require.NoError(t, svc.Checkout("feature", true))

	status, err := svc.Status()
	require.NoError(t, err)
	assert.Equal(t, "feature", status.Branch)

	assert.Error(t, svc.Checkout("missing", false))
	assert.Error(t, svc.Checkout("", false))
}
