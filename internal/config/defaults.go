// Package config provides internal configuration loading and processing.
package config

import (
	"slices"

	"github.com/lavy-dev/lavy/pkg/config"
)

// Dotted paths of the commit fields, used in issues and ignored-field lists.
const (
	sectionCommit  = "commit"
	sectionLint    = "lint"
	sectionProject = "project"

	fieldRules          = "commit.rules"
	fieldTypes          = "commit.types"
	fieldMaxLength      = "commit.max_length"
	fieldAllowMerge     = "commit.allow_merge_commits"
	fieldCustomPatterns = "commit.custom_patterns"
)

// DefaultConfig returns the default configuration. Every call returns a fresh value.
func DefaultConfig() *config.Config {
	return &config.Config{
		Commit: DefaultCommitConfig(),
	}
}

// DefaultCommitConfig returns the default commit section.
func DefaultCommitConfig() *config.CommitConfig {
	maxLength := config.DefaultMaxLength
	allowMerge := true

	return &config.CommitConfig{
		Rules:             []config.CommitRule{},
		Types:             slices.Clone(config.DefaultCommitTypes),
		MaxLength:         &maxLength,
		AllowMergeCommits: &allowMerge,
		CustomPatterns:    []*config.Pattern{},
	}
}
