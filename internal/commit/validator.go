// Package commit validates commit messages against a commit configuration.
package commit

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/pkg/config"
	"github.com/lavy-dev/lavy/pkg/logger"
)

// MergePrefix marks messages exempt from the structural checks.
const MergePrefix = "Merge"

// headerRegex matches "type(scope):" with an ASCII or full-width colon.
var headerRegex = regexp.MustCompile(`^([a-z][a-z0-9-]*)(\([^)]*\))?\s*[:：]`)

// Result is the outcome of validating one message.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validator checks messages against a commit configuration.
type Validator struct {
	cfg *config.CommitConfig
	tr  *i18n.Translator
	log logger.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithTranslator sets the catalogue used for error and warning texts.
func WithTranslator(tr *i18n.Translator) Option {
	return func(v *Validator) {
		if tr != nil {
			v.tr = tr
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// NewValidator creates a validator over a private copy of cfg.
// Unset fields take their defaults. A nil cfg is a programming error and panics.
func NewValidator(cfg *config.CommitConfig, opts ...Option) *Validator {
	if cfg == nil {
		panic("commit: NewValidator called with nil config")
	}

	v := &Validator{
		cfg: withDefaults(cfg),
		tr:  i18n.Default(),
		log: logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks message and returns a fresh result. It never panics on input.
func (v *Validator) Validate(message string) *Result {
	res := &Result{Errors: []string{}, Warnings: []string{}}

	trimmed := trim(message)
	if trimmed == "" {
		res.Errors = append(res.Errors, v.tr.T("commit_empty"))

		return res
	}

	maxLength := v.cfg.GetMaxLength()
	if length := utf8.RuneCountInString(trimmed); length > maxLength {
		res.Errors = append(res.Errors, v.tr.T("commit_too_long", i18n.Data{
			"Max":    maxLength,
			"Length": length,
		}))
	}

	if strings.HasPrefix(trimmed, MergePrefix) {
		if !v.cfg.IsMergeCommitsAllowed() {
			res.Errors = append(res.Errors, v.tr.T("commit_merge_disallowed"))
		}

		return v.finish(res, trimmed)
	}

	match := headerRegex.FindStringSubmatch(trimmed)
	if match == nil {
		res.Errors = append(res.Errors, v.tr.T("commit_bad_format"))

		return v.finish(res, trimmed)
	}

	if typ := match[1]; !slices.Contains(v.cfg.Types, typ) {
		res.Errors = append(res.Errors, v.tr.T("commit_unsupported_type", i18n.Data{
			"Type":  typ,
			"Types": strings.Join(v.cfg.Types, ", "),
		}))
	}

	for _, rule := range v.cfg.Rules {
		if !rule.Pattern.MatchString(trimmed) {
			res.Errors = append(res.Errors, rule.Message)
		}
	}

	for _, p := range v.cfg.CustomPatterns {
		if !p.MatchString(trimmed) {
			res.Warnings = append(res.Warnings, v.tr.T("commit_pattern_mismatch", i18n.Data{
				"Pattern": p.String(),
			}))
		}
	}

	return v.finish(res, trimmed)
}

func (v *Validator) finish(res *Result, message string) *Result {
	res.Valid = len(res.Errors) == 0

	v.log.Debug("commit message validated",
		"valid", res.Valid,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"length", utf8.RuneCountInString(message),
	)

	return res
}

// AddRule appends rule. It applies from the next Validate call on.
func (v *Validator) AddRule(rule config.CommitRule) {
	v.cfg.Rules = append(v.cfg.Rules, rule)
}

// UpdateConfig overlays the set fields of cfg onto the live configuration.
func (v *Validator) UpdateConfig(cfg *config.CommitConfig) {
	if cfg == nil {
		return
	}

	next := cfg.Clone()

	if next.Rules != nil {
		v.cfg.Rules = next.Rules
	}

	if next.Types != nil {
		v.cfg.Types = next.Types
	}

	if next.MaxLength != nil {
		v.cfg.MaxLength = next.MaxLength
	}

	if next.AllowMergeCommits != nil {
		v.cfg.AllowMergeCommits = next.AllowMergeCommits
	}

	if next.CustomPatterns != nil {
		v.cfg.CustomPatterns = next.CustomPatterns
	}
}

// Config returns a copy of the live configuration.
func (v *Validator) Config() *config.CommitConfig {
	return v.cfg.Clone()
}

// TypeDescription lists the allowed types in configured order with a usage example.
func (v *Validator) TypeDescription() string {
	var sb strings.Builder

	sb.WriteString(v.tr.T("types_header"))
	sb.WriteString("\n")

	for _, typ := range v.cfg.Types {
		sb.WriteString("  • ")
		sb.WriteString(typ)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(v.tr.T("types_format"))
	sb.WriteString("\n")
	sb.WriteString(v.tr.T("types_example"))

	return sb.String()
}

// FormatMessage builds "type(scope): subject", or "type: subject" without a scope.
func FormatMessage(typ, subject, scope string) string {
	if scope == "" {
		return typ + ": " + subject
	}

	return typ + "(" + scope + "): " + subject
}

// FormatMessage is the Validator form of the package-level FormatMessage.
func (*Validator) FormatMessage(typ, subject, scope string) string {
	return FormatMessage(typ, subject, scope)
}

// trim removes surrounding Unicode whitespace and byte order marks.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func withDefaults(cfg *config.CommitConfig) *config.CommitConfig {
	out := cfg.Clone()

	if out.Types == nil {
		out.Types = slices.Clone(config.DefaultCommitTypes)
	}

	return out
}
