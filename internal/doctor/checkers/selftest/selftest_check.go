// Package selftest provides the checker running the validator battery.
package selftest

import (
	"context"

	"github.com/lavy-dev/lavy/internal/commit"
	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// Checker runs the built-in self-test against the default commit configuration
type Checker struct {
	tr *i18n.Translator
}

// NewChecker creates a new self-test checker
func NewChecker(tr *i18n.Translator) *Checker {
	return &Checker{tr: tr}
}

// Name returns the name of the check
func (c *Checker) Name() string {
	return c.tr.T("check_selftest")
}

// Category returns the category of the check
func (*Checker) Category() doctor.Category {
	return doctor.CategoryValidator
}

// Check performs the self-test
func (c *Checker) Check(_ context.Context) doctor.CheckResult {
	v := commit.NewValidator(config.DefaultCommitConfig(), commit.WithTranslator(c.tr))
	outcomes := commit.SelfTest(v)
	passed := commit.CountPassed(outcomes)

	if failed := len(outcomes) - passed; failed > 0 {
		var details []string

		for _, o := range outcomes {
			if !o.Passed {
				details = append(details, o.Description+": "+o.Case.Message)
			}
		}

		return doctor.FailError(c.Name(), c.tr.T("doctor_selftest_failed", i18n.Data{
			"Failed": failed,
		})).WithDetails(details...)
	}

	return doctor.Pass(c.Name(), c.tr.T("doctor_selftest_ok", i18n.Data{
		"Passed": passed,
		"Total":  len(outcomes),
	}))
}
