// Package config provides checkers for the project configuration file.
package config

import (
	"context"
	"path/filepath"

	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/doctor"
	"github.com/lavy-dev/lavy/internal/i18n"
)

// FileChecker checks that a loadable configuration file exists
type FileChecker struct {
	loader *config.Loader
	tr     *i18n.Translator
}

// NewFileChecker creates a new config file checker
func NewFileChecker(loader *config.Loader, tr *i18n.Translator) *FileChecker {
	return &FileChecker{loader: loader, tr: tr}
}

// Name returns the name of the check
func (c *FileChecker) Name() string {
	return c.tr.T("check_config_file")
}

// Category returns the category of the check
func (*FileChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check performs the config file check
func (c *FileChecker) Check(_ context.Context) doctor.CheckResult {
	if path := c.loader.FindConfigFile(); path != "" {
		return doctor.Pass(c.Name(), c.tr.T("doctor_config_found", i18n.Data{
			"Path": filepath.Base(path),
		})).WithDetails(path)
	}

	if exe := c.loader.FindExecutableConfig(); exe != "" {
		return doctor.FailWarning(c.Name(), c.tr.T("doctor_config_executable", i18n.Data{
			"Path": filepath.Base(exe),
		})).WithDetails(exe).WithFixID(doctor.FixInitConfig)
	}

	return doctor.FailWarning(c.Name(), c.tr.T("doctor_config_missing")).
		WithDetails(filepath.Join(c.loader.WorkDir(), config.DefaultConfigFile)).
		WithFixID(doctor.FixInitConfig)
}

// ValidChecker loads the configuration and reports validation findings
type ValidChecker struct {
	loader *config.Loader
	tr     *i18n.Translator
}

// NewValidChecker creates a new config validity checker
func NewValidChecker(loader *config.Loader, tr *i18n.Translator) *ValidChecker {
	return &ValidChecker{loader: loader, tr: tr}
}

// Name returns the name of the check
func (c *ValidChecker) Name() string {
	return c.tr.T("check_config_valid")
}

// Category returns the category of the check
func (*ValidChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check performs the config validity check
func (c *ValidChecker) Check(_ context.Context) doctor.CheckResult {
	res := c.loader.Load(nil)

	if !res.Report.Valid {
		return doctor.FailError(c.Name(), c.tr.T("doctor_config_invalid")).
			WithDetails(res.Report.ErrorMessages(c.tr)...).
			WithDetails(res.Report.WarningMessages(c.tr)...)
	}

	if len(res.Report.Warnings) > 0 || len(res.Ignored) > 0 {
		result := doctor.FailWarning(c.Name(), c.tr.T("doctor_config_ok")).
			WithDetails(res.Report.WarningMessages(c.tr)...)

		if len(res.Ignored) > 0 {
			result = result.WithDetails(c.tr.T("doctor_config_ignored", i18n.Data{
				"Count": len(res.Ignored),
			}))
			result = result.WithDetails(res.Ignored...)
		}

		return result
	}

	return doctor.Pass(c.Name(), c.tr.T("doctor_config_ok"))
}
