// Package fixers provides fixers for doctor check results.
package fixers

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// InitConfigFixer writes the default commit section into the project configuration.
type InitConfigFixer struct {
	writer *config.Writer
	tr     *i18n.Translator
}

// NewInitConfigFixer creates a new InitConfigFixer.
func NewInitConfigFixer(writer *config.Writer, tr *i18n.Translator) *InitConfigFixer {
	return &InitConfigFixer{writer: writer, tr: tr}
}

// ID returns the fixer identifier.
func (*InitConfigFixer) ID() string {
	return doctor.FixInitConfig
}

// Description returns a human-readable description.
func (f *InitConfigFixer) Description() string {
	return f.tr.T("fix_init_config")
}

// CanFix checks if this fixer can fix the given result.
func (*InitConfigFixer) CanFix(result doctor.CheckResult) bool {
	return result.FixID == doctor.FixInitConfig && result.Status == doctor.StatusFail
}

// Fix creates or completes the configuration file.
func (f *InitConfigFixer) Fix(_ context.Context) error {
	if _, err := f.writer.InitCommit(); err != nil {
		return errors.Wrap(err, "failed to initialize config")
	}

	return nil
}
