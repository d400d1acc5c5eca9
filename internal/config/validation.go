// Package config provides internal configuration loading and processing.
package config

import (
	"github.com/cockroachdb/errors"

	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidMaxLength is reported when max_length is not a positive integer.
	ErrInvalidMaxLength = errors.New("max_length must be a positive integer")

	// ErrUnusualMaxLength is reported as a warning when max_length is very large.
	ErrUnusualMaxLength = errors.New("max_length is unusually large")

	// ErrInvalidMergeFlag is reported when allow_merge_commits is not a boolean.
	ErrInvalidMergeFlag = errors.New("allow_merge_commits must be a boolean")

	// ErrTypesNotArray is reported when types is not an array.
	ErrTypesNotArray = errors.New("types must be an array")

	// ErrEmptyType is reported when types contains an empty or non-string entry.
	ErrEmptyType = errors.New("types must contain non-empty strings")

	// ErrRulesNotArray is reported when rules is not an array.
	ErrRulesNotArray = errors.New("rules must be an array")

	// ErrInvalidRulePattern is reported when a rule has no valid pattern.
	ErrInvalidRulePattern = errors.New("rule pattern must be a valid regular expression")

	// ErrInvalidRuleMessage is reported when a rule has no message.
	ErrInvalidRuleMessage = errors.New("rule message must be a non-empty string")

	// ErrPatternsNotArray is reported when custom_patterns is not an array.
	ErrPatternsNotArray = errors.New("custom_patterns must be an array")

	// ErrInvalidCustomPattern is reported when a custom pattern is not a valid regular expression.
	ErrInvalidCustomPattern = errors.New("custom pattern must be a valid regular expression")

	// ErrInvalidSection is reported when a top-level section has the wrong shape.
	ErrInvalidSection = errors.New("malformed configuration section")

	// ErrLoadFailed is reported when a configuration file cannot be read or parsed.
	ErrLoadFailed = errors.New("failed to load configuration file")

	// ErrInvalidPermissions is reported when the config file is world-writable.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

// issueMessages maps sentinel errors to catalogue IDs.
var issueMessages = []struct {
	err error
	id  string
}{
	{ErrInvalidMaxLength, "cfg_max_length_invalid"},
	{ErrUnusualMaxLength, "cfg_max_length_large"},
	{ErrInvalidMergeFlag, "cfg_merge_invalid"},
	{ErrTypesNotArray, "cfg_types_not_array"},
	{ErrEmptyType, "cfg_types_empty_entry"},
	{ErrRulesNotArray, "cfg_rules_not_array"},
	{ErrInvalidRulePattern, "cfg_rule_pattern"},
	{ErrInvalidRuleMessage, "cfg_rule_message"},
	{ErrPatternsNotArray, "cfg_patterns_not_array"},
	{ErrInvalidCustomPattern, "cfg_pattern_invalid"},
	{ErrInvalidSection, "cfg_section_invalid"},
	{ErrLoadFailed, "cfg_load_failed"},
	{ErrInvalidPermissions, "cfg_insecure_permissions"},
}

// Issue is one validation finding.
type Issue struct {
	// Field is the dotted config path, e.g. "commit.max_length".
	Field string

	// Err wraps one of the sentinel errors of this package.
	Err error

	// Detail is optional context such as a parser or regex error.
	Detail string
}

func (i Issue) Error() string {
	msg := i.Field + ": " + i.Err.Error()
	if i.Detail != "" {
		msg += " (" + i.Detail + ")"
	}

	return msg
}

// Unwrap returns the underlying sentinel.
func (i Issue) Unwrap() error {
	return i.Err
}

// Message renders the issue with tr.
func (i Issue) Message(tr *i18n.Translator) string {
	msg := i.Error()

	for _, m := range issueMessages {
		if errors.Is(i.Err, m.err) {
			msg = tr.T(m.id, i18n.Data{"Field": i.Field})

			break
		}
	}

	if i.Detail != "" {
		msg += ": " + i.Detail
	}

	return msg
}

// ValidationReport collects validation findings. Errors make the config invalid,
// warnings do not.
type ValidationReport struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
}

func newReport() *ValidationReport {
	return &ValidationReport{Valid: true, Errors: []Issue{}, Warnings: []Issue{}}
}

func (r *ValidationReport) addError(field string, err error, detail string) {
	r.Errors = append(r.Errors, Issue{Field: field, Err: err, Detail: detail})
	r.Valid = false
}

func (r *ValidationReport) addWarning(field string, err error, detail string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Err: err, Detail: detail})
}

// Merge appends the findings of other.
func (r *ValidationReport) Merge(other *ValidationReport) {
	if other == nil {
		return
	}

	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Valid = len(r.Errors) == 0
}

// ErrorMessages renders the errors with tr.
func (r *ValidationReport) ErrorMessages(tr *i18n.Translator) []string {
	return messages(r.Errors, tr)
}

// WarningMessages renders the warnings with tr.
func (r *ValidationReport) WarningMessages(tr *i18n.Translator) []string {
	return messages(r.Warnings, tr)
}

// Err returns nil for a valid report, otherwise an ErrInvalidConfig describing every error.
func (r *ValidationReport) Err() error {
	if r.Valid {
		return nil
	}

	errs := make([]error, 0, len(r.Errors))
	for _, issue := range r.Errors {
		errs = append(errs, issue)
	}

	return errors.WithSecondaryError(
		errors.Wrapf(ErrInvalidConfig, "validation failed with %d error(s)", len(r.Errors)),
		combineErrors(errs),
	)
}

func messages(issues []Issue, tr *i18n.Translator) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message(tr))
	}

	return out
}

// ValidateConfig checks the semantic constraints of cfg. It never mutates cfg.
// Each list field reports only its first violation.
func ValidateConfig(cfg *config.Config) *ValidationReport {
	report := newReport()

	if cfg == nil || cfg.Commit == nil {
		return report
	}

	report.Merge(ValidateCommit(cfg.Commit))

	return report
}

// ValidateCommit checks the commit section.
func ValidateCommit(c *config.CommitConfig) *ValidationReport {
	report := newReport()

	if c == nil {
		return report
	}

	validateMaxLength(report, c.MaxLength)

	if err := validateTypes(c.Types); err != nil {
		report.addError(fieldTypes, err, "")
	}

	for _, rule := range c.Rules {
		if err := validateRule(rule); err != nil {
			report.addError(fieldRules, err, "")

			break
		}
	}

	for _, p := range c.CustomPatterns {
		if p == nil {
			report.addError(fieldCustomPatterns, ErrInvalidCustomPattern, "")

			break
		}
	}

	return report
}

func validateMaxLength(report *ValidationReport, maxLength *int) {
	if maxLength == nil {
		return
	}

	switch {
	case *maxLength <= 0:
		report.addError(fieldMaxLength, ErrInvalidMaxLength, "")
	case *maxLength > config.MaxLengthWarningThreshold:
		report.addWarning(fieldMaxLength, ErrUnusualMaxLength, "")
	}
}

func validateTypes(types []string) error {
	for _, t := range types {
		if t == "" {
			return ErrEmptyType
		}
	}

	return nil
}

func validateRule(rule config.CommitRule) error {
	if rule.Pattern == nil {
		return ErrInvalidRulePattern
	}

	if rule.Message == "" {
		return ErrInvalidRuleMessage
	}

	return nil
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
