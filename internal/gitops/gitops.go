// Package gitops implements the git tools over the workspace repository
// using go-git. Operations are porcelain-shaped: the structured results
// mirror what the corresponding git subcommands print.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog/log"

	"github.com/DanielAvdar/dev-kit-mcp-server/internal/workspace"
)

// Service executes git operations on the repository at the workspace root.
type Service struct {
	root *workspace.Root
}

// NewService creates a Service for the given root. The root does not need
// to be a repository yet; each operation opens it and fails with a clear
// error when it is not one.
func NewService(root *workspace.Root) *Service {
	return &Service{root: root}
}

func (s *Service) open() (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpen(s.root.Dir())
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil, fmt.Errorf("workspace root is not a git repository")
		}
		return nil, nil, fmt.Errorf("failed to open repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return repo, worktree, nil
}

// StatusResult is the structured form of `git status`.
type StatusResult struct {
	Branch    string   `json:"branch"`
	Staged    []string `json:"staged"`
	Unstaged  []string `json:"unstaged"`
	Untracked []string `json:"untracked"`
	Clean     bool     `json:"clean"`
}

// Status reports the current branch and the worktree state.
func (s *Service) Status() (*StatusResult, error) {
	repo, worktree, err := s.open()
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		Branch:    "HEAD",
		Staged:    []string{},
		Unstaged:  []string{},
		Untracked: []string{},
	}
	if head, err := repo.Head(); err == nil {
		result.Branch = head.Name().Short()
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	for path, st := range status {
		if st.Staging == git.Untracked {
			result.Untracked = append(result.Untracked, path)
			continue
		}
		if st.Staging != git.Unmodified {
			result.Staged = append(result.Staged, path)
		}
		if st.Worktree != git.Unmodified {
			result.Unstaged = append(result.Unstaged, path)
		}
	}
	sort.Strings(result.Staged)
	sort.Strings(result.Unstaged)
	sort.Strings(result.Untracked)
	result.Clean = status.IsClean()
	return result, nil
}

// Add stages the given root-relative paths.
func (s *Service) Add(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no paths to stage")
	}
	_, worktree, err := s.open()
	if err != nil {
		return err
	}
	for _, p := range paths {
		abs, err := s.root.Resolve(p)
		if err != nil {
			return err
		}
		if _, err := worktree.Add(s.root.Rel(abs)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return nil
}

// CommitResult reports a created commit.
type CommitResult struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// Commit records the staged changes. When all is set, modified and
// deleted tracked files are staged first, matching `git commit -a`.
func (s *Service) Commit(message string, all bool) (*CommitResult, error) {
	if message == "" {
		return nil, fmt.Errorf("commit message is required")
	}
	_, worktree, err := s.open()
	if err != nil {
		return nil, err
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{All: all})
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	log.Debug().Str("hash", hash.String()).Msg("created commit")
	return &CommitResult{Hash: hash.String(), Message: message}, nil
}

// Push uploads the current branch to its remote. Already-up-to-date is
// success, not an error.
func (s *Service) Push(ctx context.Context) error {
	repo, _, err := s.open()
	if err != nil {
		return err
	}
	err = repo.PushContext(ctx, &git.PushOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// Pull fetches and merges the current branch from its remote.
func (s *Service) Pull(ctx context.Context) error {
	_, worktree, err := s.open()
	if err != nil {
		return err
	}
	err = worktree.PullContext(ctx, &git.PullOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return nil
}

// Checkout switches to a branch, optionally creating it at HEAD first.
func (s *Service) Checkout(branch string, create bool) error {
	if branch == "" {
		return fmt.Errorf("branch name is required")
	}
	_, worktree, err := s.open()
	if err != nil {
		return err
	}
	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}
