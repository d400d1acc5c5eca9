package fixers

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/conflict"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// ErrRemoveFailed is returned when some conflicting files could not be deleted.
var ErrRemoveFailed = errors.New("failed to remove conflicting files")

// RemoveConflictsFixer deletes configuration files of competing tools.
type RemoveConflictsFixer struct {
	detector *conflict.Detector
	root     string
	out      io.Writer
	theme    color.Theme
	tr       *i18n.Translator
}

// NewRemoveConflictsFixer creates a new RemoveConflictsFixer. Removal progress goes to out.
func NewRemoveConflictsFixer(
	detector *conflict.Detector,
	root string,
	out io.Writer,
	theme color.Theme,
	tr *i18n.Translator,
) *RemoveConflictsFixer {
	return &RemoveConflictsFixer{detector: detector, root: root, out: out, theme: theme, tr: tr}
}

// ID returns the fixer identifier.
func (*RemoveConflictsFixer) ID() string {
	return doctor.FixRemoveConflicts
}

// Description returns a human-readable description.
func (f *RemoveConflictsFixer) Description() string {
	return f.tr.T("fix_remove_conflicts")
}

// CanFix checks if this fixer can fix the given result.
func (*RemoveConflictsFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == doctor.FixRemoveConflicts && result.Status == doctor.StatusFail
}

// Fix removes every detected conflict.
func (f *RemoveConflictsFixer) Fix(_ context.Context) error {
	info := f.detector.Detect(f.root)
	if !info.HasConflict {
		return nil
	}

	removal := f.detector.Remove(f.root, info)
	conflict.ReportRemoval(f.out, removal, f.theme, f.tr)

	if failed := removal.FailedFiles(); len(failed) > 0 {
		return errors.Wrapf(ErrRemoveFailed, "%v", failed)
	}

	return nil
}
