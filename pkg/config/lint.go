package config

import "slices"

// LintConfig groups the settings of the linters lavy scaffolds.
type LintConfig struct {
	ESLint    *LinterConfig `json:"eslint,omitempty" koanf:"eslint" toml:"eslint,omitempty" yaml:"eslint,omitempty"`
	Stylelint *LinterConfig `json:"stylelint,omitempty" koanf:"stylelint" toml:"stylelint,omitempty" yaml:"stylelint,omitempty"`
	Prettier  *LinterConfig `json:"prettier,omitempty" koanf:"prettier" toml:"prettier,omitempty" yaml:"prettier,omitempty"`
	Biome     *LinterConfig `json:"biome,omitempty" koanf:"biome" toml:"biome,omitempty" yaml:"biome,omitempty"`
}

// LinterConfig configures a single linter.
type LinterConfig struct {
	// Enabled controls whether the linter is set up.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Config is the path of the linter's own configuration file.
	Config string `json:"config,omitempty" koanf:"config" toml:"config,omitempty" yaml:"config,omitempty"`

	// Ignore lists paths excluded from linting.
	Ignore []string `json:"ignore,omitempty" koanf:"ignore" toml:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// IsEnabled returns true if the linter is enabled (nil means enabled).
func (c *LinterConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// ProjectConfig describes the generated project.
type ProjectConfig struct {
	// Language is "ts" or "js".
	Language string `json:"language,omitempty" koanf:"language" toml:"language,omitempty" yaml:"language,omitempty" jsonschema:"enum=ts,enum=js"`

	// Framework is "vue", "react" or "none".
	Framework string `json:"framework,omitempty" koanf:"framework" toml:"framework,omitempty" yaml:"framework,omitempty" jsonschema:"enum=vue,enum=react,enum=none"`

	// Style is "css", "less", "scss" or "none".
	Style string `json:"style,omitempty" koanf:"style" toml:"style,omitempty" yaml:"style,omitempty" jsonschema:"enum=css,enum=less,enum=scss,enum=none"`

	// Linter is "eslint" or "biome".
	Linter string `json:"linter,omitempty" koanf:"linter" toml:"linter,omitempty" yaml:"linter,omitempty" jsonschema:"enum=eslint,enum=biome"`

	// Platform is "node", "browser" or "universal".
	Platform string `json:"platform,omitempty" koanf:"platform" toml:"platform,omitempty" yaml:"platform,omitempty" jsonschema:"enum=node,enum=browser,enum=universal"`
}

// Clone returns a copy of the project config.
func (p *ProjectConfig) Clone() *ProjectConfig {
	if p == nil {
		return nil
	}

	out := *p

	return &out
}

// Clone returns a deep copy of the lint config.
func (l *LintConfig) Clone() *LintConfig {
	if l == nil {
		return nil
	}

	return &LintConfig{
		ESLint:    l.ESLint.Clone(),
		Stylelint: l.Stylelint.Clone(),
		Prettier:  l.Prettier.Clone(),
		Biome:     l.Biome.Clone(),
	}
}

// Clone returns a deep copy of the linter config.
func (c *LinterConfig) Clone() *LinterConfig {
	if c == nil {
		return nil
	}

	out := &LinterConfig{
		Config: c.Config,
		Ignore: slices.Clone(c.Ignore),
	}

	if c.Enabled != nil {
		v := *c.Enabled
		out.Enabled = &v
	}

	return out
}
