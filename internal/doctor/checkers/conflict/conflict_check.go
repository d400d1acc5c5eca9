// Package conflict provides the checker for competing tool configurations.
package conflict

import (
	"context"

	"github.com/lavy-dev/lavy/internal/conflict"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// Checker reports configuration files of other tools in the project root
type Checker struct {
	detector *conflict.Detector
	root     string
	tr       *i18n.Translator
}

// NewChecker creates a new conflict checker
func NewChecker(detector *conflict.Detector, root string, tr *i18n.Translator) *Checker {
	return &Checker{detector: detector, root: root, tr: tr}
}

// Name returns the name of the check
func (c *Checker) Name() string {
	return c.tr.T("check_conflicts")
}

// Category returns the category of the check
func (*Checker) Category() doctor.Category {
	return doctor.CategoryConflict
}

// Check performs the conflict check
func (c *Checker) Check(_ context.Context) doctor.CheckResult {
	info := c.detector.Detect(c.root)
	if !info.HasConflict {
		return doctor.Pass(c.Name(), c.tr.T("doctor_conflicts_none"))
	}

	return doctor.FailWarning(c.Name(), c.tr.T("doctor_conflicts_found", i18n.Data{
		"Count": len(info.Conflicts),
	})).
		WithDetails(info.Descriptions(c.tr)...).
		WithFixID(doctor.FixRemoveConflicts)
}
