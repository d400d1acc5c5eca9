package git

import "github.com/cockroachdb/errors"

var (
	// ErrNotRepository is returned when the directory is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoHead is returned when the repository has no commits yet.
	ErrNoHead = errors.New("repository has no HEAD commit")

	// ErrHookExists is returned when a commit-msg hook is already installed.
	ErrHookExists = errors.New("commit-msg hook already exists")

	// ErrMessageFile is returned when a commit message file cannot be read.
	ErrMessageFile = errors.New("failed to read commit message file")
)
