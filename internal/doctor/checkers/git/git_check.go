// Package git provides checkers for the repository and its commit-msg hook.
package git

import (
	"context"

	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/git"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// RepoChecker checks that the project is inside a git repository
type RepoChecker struct {
	dir string
	tr  *i18n.Translator
}

// NewRepoChecker creates a new repository checker
func NewRepoChecker(dir string, tr *i18n.Translator) *RepoChecker {
	return &RepoChecker{dir: dir, tr: tr}
}

// Name returns the name of the check
func (c *RepoChecker) Name() string {
	return c.tr.T("check_git_repo")
}

// Category returns the category of the check
func (*RepoChecker) Category() doctor.Category {
	return doctor.CategoryGit
}

// Check performs the repository check
func (c *RepoChecker) Check(_ context.Context) doctor.CheckResult {
	repo, err := git.OpenRepository(c.dir)
	if err != nil {
		return doctor.FailWarning(c.Name(), c.tr.T("doctor_git_missing")).WithDetails(err.Error())
	}

	root, err := repo.Root()
	if err != nil {
		return doctor.FailWarning(c.Name(), c.tr.T("doctor_git_missing")).WithDetails(err.Error())
	}

	return doctor.Pass(c.Name(), c.tr.T("doctor_git_ok", i18n.Data{"Root": root}))
}

// HookChecker checks that the commit-msg hook runs lavy
type HookChecker struct {
	dir string
	tr  *i18n.Translator
}

// NewHookChecker creates a new hook checker
func NewHookChecker(dir string, tr *i18n.Translator) *HookChecker {
	return &HookChecker{dir: dir, tr: tr}
}

// Name returns the name of the check
func (c *HookChecker) Name() string {
	return c.tr.T("check_hook")
}

// Category returns the category of the check
func (*HookChecker) Category() doctor.Category {
	return doctor.CategoryGit
}

// Check performs the hook check
func (c *HookChecker) Check(_ context.Context) doctor.CheckResult {
	repo, err := git.OpenRepository(c.dir)
	if err != nil {
		return doctor.Skip(c.Name(), c.tr.T("doctor_git_missing"))
	}

	path, err := repo.CommitMsgHookPath()
	if err != nil {
		return doctor.FailError(c.Name(), err.Error())
	}

	state, err := repo.HookState()
	if err != nil {
		return doctor.FailError(c.Name(), err.Error()).WithDetails(path)
	}

	switch state {
	case git.HookInstalled:
		return doctor.Pass(c.Name(), c.tr.T("doctor_hook_ok")).WithDetails(path)
	case git.HookForeign:
		return doctor.FailWarning(c.Name(), c.tr.T("doctor_hook_foreign")).WithDetails(path)
	default:
		return doctor.FailWarning(c.Name(), c.tr.T("doctor_hook_missing")).
			WithDetails(path).
			WithFixID(doctor.FixInstallHook)
	}
}
