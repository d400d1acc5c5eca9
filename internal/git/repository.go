// Package git provides the repository access lavy needs, built on go-git v6.
package git

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/storage/filesystem"
)

// gitEnvVarsToUnset lists git environment variables cleared before go-git opens
// the repository. Running as a commit-msg hook, lavy inherits GIT_INDEX_FILE from
// the parent git process, and go-git must not share that index.
//
// See: https://github.com/pre-commit/pre-commit/issues/1849
var gitEnvVarsToUnset = []string{
	"GIT_INDEX_FILE",
}

func init() {
	clearGitEnvVars()
}

func clearGitEnvVars() {
	for _, envVar := range gitEnvVarsToUnset {
		_ = os.Unsetenv(envVar)
	}
}

// Repository is an opened git repository.
type Repository struct {
	repo *git.Repository
}

// OpenRepository opens the repository containing path. Parent directories are
// searched for .git, and linked worktrees resolve to their common directory.
// See: https://github.com/go-git/go-git/issues/225
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(ErrNotRepository, "%s", path)
		}

		return nil, errors.Wrap(err, "failed to open repository")
	}

	return &Repository{repo: repo}, nil
}

// IsInRepo reports whether path is inside a git repository.
func IsInRepo(path string) bool {
	_, err := OpenRepository(path)

	return err == nil
}

// Root returns the worktree root directory.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, "failed to get worktree")
	}

	return worktree.Filesystem.Root(), nil
}

// GitDir returns the repository's git directory, usually <root>/.git.
func (r *Repository) GitDir() (string, error) {
	if storage, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return storage.Filesystem().Root(), nil
	}

	root, err := r.Root()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, ".git"), nil
}

// HeadMessage returns the full message of the HEAD commit.
func (r *Repository) HeadMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoHead
		}

		return "", errors.Wrap(err, "failed to get HEAD")
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", errors.Wrapf(err, "failed to read commit %s", head.Hash())
	}

	return commit.Message, nil
}

// HeadHash returns the abbreviated hash of the HEAD commit.
func (r *Repository) HeadHash() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoHead
		}

		return "", errors.Wrap(err, "failed to get HEAD")
	}

	return head.Hash().String()[:7], nil
}

// DefaultMessageFile returns the path git writes the message being committed to.
func (r *Repository) DefaultMessageFile() (string, error) {
	dir, err := r.GitDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "COMMIT_EDITMSG"), nil
}

// HooksDir returns the directory git runs hooks from, honouring core.hooksPath.
func (r *Repository) HooksDir() (string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", errors.Wrap(err, "failed to get config")
	}

	if hooksPath := strings.TrimSpace(cfg.Raw.Section("core").Option("hooksPath")); hooksPath != "" {
		if filepath.IsAbs(hooksPath) {
			return hooksPath, nil
		}

		root, err := r.Root()
		if err != nil {
			return "", err
		}

		return filepath.Join(root, hooksPath), nil
	}

	dir, err := r.GitDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "hooks"), nil
}
