// Package config provides configuration schema types for lavy.
package config

import "maps"

// Config represents the root lavy configuration.
type Config struct {
	// Commit contains commit message validation settings.
	Commit *CommitConfig `json:"commit,omitempty" koanf:"commit" toml:"commit,omitempty" yaml:"commit,omitempty"`

	// Lint contains per-linter settings.
	Lint *LintConfig `json:"lint,omitempty" koanf:"lint" toml:"lint,omitempty" yaml:"lint,omitempty"`

	// Project describes the project the tooling was generated for.
	Project *ProjectConfig `json:"project,omitempty" koanf:"project" toml:"project,omitempty" yaml:"project,omitempty"`

	// Extra keeps unknown top-level keys so extensions survive a load/merge cycle.
	Extra map[string]any `json:"-" koanf:",remain" toml:"-" yaml:"-"`
}

// GetCommit returns the commit config, creating it if it doesn't exist.
func (c *Config) GetCommit() *CommitConfig {
	if c.Commit == nil {
		c.Commit = &CommitConfig{}
	}

	return c.Commit
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := &Config{
		Commit:  c.Commit.Clone(),
		Lint:    c.Lint.Clone(),
		Project: c.Project.Clone(),
	}

	if c.Extra != nil {
		out.Extra = maps.Clone(c.Extra)
	}

	return out
}
