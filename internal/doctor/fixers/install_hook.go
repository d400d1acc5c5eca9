package fixers

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/git"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// InstallHookFixer installs the commit-msg hook. It never replaces a foreign hook.
type InstallHookFixer struct {
	dir string
	tr  *i18n.Translator
}

// NewInstallHookFixer creates a new InstallHookFixer for the repository containing dir.
func NewInstallHookFixer(dir string, tr *i18n.Translator) *InstallHookFixer {
	return &InstallHookFixer{dir: dir, tr: tr}
}

// ID returns the fixer identifier.
func (*InstallHookFixer) ID() string {
	return doctor.FixInstallHook
}

// Description returns a human-readable description.
func (f *InstallHookFixer) Description() string {
	return f.tr.T("fix_install_hook")
}

// CanFix checks if this fixer can fix the given result.
func (*InstallHookFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == doctor.FixInstallHook && result.Status == doctor.StatusFail
}

// Fix installs the hook.
func (f *InstallHookFixer) Fix(_ context.Context) error {
	repo, err := git.OpenRepository(f.dir)
	if err != nil {
		return err
	}

	if _, err := repo.InstallCommitMsgHook(false); err != nil {
		return errors.Wrap(err, "failed to install commit-msg hook")
	}

	return nil
}
