package git

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// CommitMsgHook is the name of the hook lavy installs.
	CommitMsgHook = "commit-msg"

	hookMode = 0o755
	dirMode  = 0o755

	hookCommand = `lavy commit --edit "$1"`
)

// hookScript runs lavy against the message file git passes as $1.
var hookScript = "#!/bin/sh\n# Installed by lavy: validates the commit message.\nexec " + hookCommand + "\n"

// HookState describes the commit-msg hook of a repository.
type HookState string

const (
	HookMissing   HookState = "missing"
	HookInstalled HookState = "installed"
	HookForeign   HookState = "foreign"
)

// CommitMsgHookPath returns where the commit-msg hook lives.
func (r *Repository) CommitMsgHookPath() (string, error) {
	dir, err := r.HooksDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, CommitMsgHook), nil
}

// HookState reports whether the commit-msg hook exists and whether it runs lavy.
func (r *Repository) HookState() (HookState, error) {
	path, err := r.CommitMsgHookPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return HookMissing, nil
		}

		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	if strings.Contains(string(data), "lavy commit") {
		return HookInstalled, nil
	}

	return HookForeign, nil
}

// InstallCommitMsgHook writes an executable commit-msg hook running
// `lavy commit --edit "$1"` and returns its path. An existing hook is only
// replaced when force is set; otherwise ErrHookExists is returned.
func (r *Repository) InstallCommitMsgHook(force bool) (string, error) {
	path, err := r.CommitMsgHookPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return path, errors.Wrapf(ErrHookExists, "%s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", filepath.Dir(path))
	}

	if err := os.WriteFile(path, []byte(hookScript), hookMode); err != nil {
		return "", errors.Wrapf(err, "failed to write hook %s", path)
	}

	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, hookMode); err != nil {
		return "", errors.Wrapf(err, "failed to make hook executable %s", path)
	}

	return path, nil
}
