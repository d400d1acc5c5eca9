// Package config provides internal configuration loading and processing.
package config

import (
	"maps"
	"slices"

	"github.com/lavy-dev/lavy/pkg/config"
)

// MergeConfig layers user over defaults and returns a new configuration.
// Neither input is modified.
//
// Merging follows these rules:
//   - lint, project and unknown top-level keys: the user value replaces the default per key
//   - commit.rules and commit.custom_patterns: defaults followed by the user entries
//     not already present in the defaults
//   - commit.types: the user list when non-empty, otherwise the defaults
//   - commit.max_length and commit.allow_merge_commits: the user value when set
func MergeConfig(defaults, user *config.Config) *config.Config {
	out := defaults.Clone()
	if out == nil {
		out = &config.Config{}
	}

	if user == nil {
		return out
	}

	if user.Lint != nil {
		out.Lint = user.Lint.Clone()
	}

	if user.Project != nil {
		out.Project = user.Project.Clone()
	}

	if len(user.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]any, len(user.Extra))
		}

		maps.Copy(out.Extra, user.Extra)
	}

	if user.Commit != nil {
		out.Commit = mergeCommit(out.Commit, user.Commit)
	}

	return out
}

// mergeCommit merges src over dst. dst is already a private copy.
func mergeCommit(dst, src *config.CommitConfig) *config.CommitConfig {
	if dst == nil {
		dst = &config.CommitConfig{}
	}

	base := slices.Clone(dst.Rules)
	for _, rule := range src.Clone().Rules {
		if !slices.ContainsFunc(base, rule.Equal) {
			dst.Rules = append(dst.Rules, rule)
		}
	}

	basePatterns := slices.Clone(dst.CustomPatterns)
	for _, p := range src.CustomPatterns {
		if !slices.ContainsFunc(basePatterns, p.Equal) {
			dst.CustomPatterns = append(dst.CustomPatterns, p)
		}
	}

	if len(src.Types) > 0 {
		dst.Types = slices.Clone(src.Types)
	}

	if src.MaxLength != nil {
		v := *src.MaxLength
		dst.MaxLength = &v
	}

	if src.AllowMergeCommits != nil {
		v := *src.AllowMergeCommits
		dst.AllowMergeCommits = &v
	}

	return dst
}
