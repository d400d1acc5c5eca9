package config

import "slices"

const (
	// DefaultMaxLength is the commit message length limit used when none is configured.
	DefaultMaxLength = 72

	// MaxLengthWarningThreshold is the limit above which a max_length is reported as unusual.
	MaxLengthWarningThreshold = 200
)

// DefaultCommitTypes are the commit types allowed when none are configured,
// in display order. Callers must not modify the slice.
var DefaultCommitTypes = []string{
	"feat",
	"fix",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
	"build",
	"ci",
	"chore",
	"revert",
}

// CommitRule is one custom validation constraint. A message fails the rule
// when Pattern does not match it.
type CommitRule struct {
	// Pattern is checked against the trimmed commit message.
	Pattern *Pattern `json:"pattern" koanf:"pattern" toml:"pattern" yaml:"pattern"`

	// Message is reported as an error when Pattern does not match.
	Message string `json:"message" koanf:"message" toml:"message" yaml:"message"`

	// Examples are messages that satisfy the rule, shown in diagnostics.
	Examples []string `json:"examples,omitempty" koanf:"examples" toml:"examples,omitempty" yaml:"examples,omitempty"`
}

// Equal reports whether two rules have the same pattern, message and examples.
func (r CommitRule) Equal(other CommitRule) bool {
	return r.Pattern.Equal(other.Pattern) &&
		r.Message == other.Message &&
		slices.Equal(r.Examples, other.Examples)
}

// CommitConfig configures commit message validation.
type CommitConfig struct {
	// Rules are hard constraints; each failing rule adds its message as an error.
	Rules []CommitRule `json:"rules,omitempty" koanf:"rules" toml:"rules,omitempty" yaml:"rules,omitempty"`

	// Types is the closed set of allowed commit types, in display order.
	// Default: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert
	Types []string `json:"types,omitempty" koanf:"types" toml:"types,omitempty" yaml:"types,omitempty"`

	// MaxLength is the maximum length of the trimmed message in characters.
	// Default: 72
	MaxLength *int `json:"max_length,omitempty" koanf:"max_length" toml:"max_length,omitempty" yaml:"max_length,omitempty" jsonschema:"minimum=1"`

	// AllowMergeCommits exempts messages starting with "Merge" from format rules.
	// When false, such messages are rejected.
	// Default: true
	AllowMergeCommits *bool `json:"allow_merge_commits,omitempty" koanf:"allow_merge_commits" toml:"allow_merge_commits,omitempty" yaml:"allow_merge_commits,omitempty"`

	// CustomPatterns are soft constraints; each failing pattern adds a warning.
	CustomPatterns []*Pattern `json:"custom_patterns,omitempty" koanf:"custom_patterns" toml:"custom_patterns,omitempty" yaml:"custom_patterns,omitempty"`
}

// GetMaxLength returns the configured limit or DefaultMaxLength.
func (c *CommitConfig) GetMaxLength() int {
	if c == nil || c.MaxLength == nil {
		return DefaultMaxLength
	}

	return *c.MaxLength
}

// GetTypes returns the configured types. Nil-safe.
func (c *CommitConfig) GetTypes() []string {
	if c == nil {
		return nil
	}

	return c.Types
}

// IsMergeCommitsAllowed returns true unless merge commits are explicitly disallowed.
func (c *CommitConfig) IsMergeCommitsAllowed() bool {
	if c == nil || c.AllowMergeCommits == nil {
		return true
	}

	return *c.AllowMergeCommits
}

// Clone returns a deep copy. Patterns are immutable and shared.
func (c *CommitConfig) Clone() *CommitConfig {
	if c == nil {
		return nil
	}

	out := &CommitConfig{
		Types:          slices.Clone(c.Types),
		CustomPatterns: slices.Clone(c.CustomPatterns),
	}

	if c.Rules != nil {
		out.Rules = make([]CommitRule, len(c.Rules))
		for i, r := range c.Rules {
			out.Rules[i] = CommitRule{
				Pattern:  r.Pattern,
				Message:  r.Message,
				Examples: slices.Clone(r.Examples),
			}
		}
	}

	if c.MaxLength != nil {
		v := *c.MaxLength
		out.MaxLength = &v
	}

	if c.AllowMergeCommits != nil {
		v := *c.AllowMergeCommits
		out.AllowMergeCommits = &v
	}

	return out
}
