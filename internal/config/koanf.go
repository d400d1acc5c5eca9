// Package config provides internal configuration loading and processing.
package config

import (
	"maps"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	kmaps "github.com/knadh/koanf/maps"
	jsonparser "github.com/knadh/koanf/parsers/json"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lavy-dev/lavy/pkg/config"
	"github.com/lavy-dev/lavy/pkg/logger"
)

// decodeErrorPrefix heads the errors mapstructure returns from Decode.
const decodeErrorPrefix = "decoding failed due to the following error(s):\n\n"

// ErrUnsupportedFormat is returned for configuration files lavy cannot parse.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

const (
	// DefaultConfigFile is the file created by "lavy commit --init".
	DefaultConfigFile = "lavy.config.toml"

	// EnvPrefix is the prefix of configuration environment variables.
	EnvPrefix = "LAVY_"
)

// ConfigFiles are the project configuration files in lookup order. The first one found wins.
var ConfigFiles = []string{
	"lavy.config.toml",
	"lavy.config.json",
	"lavy.config.yaml",
	"lavy.config.yml",
}

// ExecutableConfigFiles are recognized configuration files that lavy never evaluates.
var ExecutableConfigFiles = []string{
	"lavy.config.js",
	"lavy.config.ts",
}

// LoadResult is the outcome of Loader.Load.
type LoadResult struct {
	// Config is the user configuration merged over the defaults. Never nil.
	Config *config.Config

	// User holds the file, environment and flag layers after ignored fields were dropped.
	User *config.Config

	// Source is the loaded configuration file, empty when none was loaded.
	Source string

	// Executable is an executable configuration file that was found but skipped.
	Executable string

	// Report lists decode and validation findings for the user layers.
	Report *ValidationReport

	// Ignored lists the dotted paths of user fields that were dropped.
	Ignored []string
}

func (r *LoadResult) ignore(log logger.Logger, field string, err error, detail string) {
	r.Report.addError(field, err, detail)
	r.Ignored = append(r.Ignored, field)

	log.Warn("ignoring invalid configuration value", "field", field, "error", err.Error(), "detail", detail)
}

// Loader loads the project configuration. Precedence order (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LAVY_*)
//  3. Project config file (lavy.config.toml, .json, .yaml or .yml)
//  4. Defaults
//
// The file, environment and flag layers form the user configuration, which is
// merged over the defaults with MergeConfig. Nothing is cached between loads.
type Loader struct {
	workDir string
	log     logger.Logger
	environ func() []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(log logger.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(fn func() []string) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.environ = fn
		}
	}
}

// NewLoader creates a Loader for the project rooted at workDir.
func NewLoader(workDir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		workDir: workDir,
		log:     logger.NewNoOpLogger(),
		environ: os.Environ,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WorkDir returns the project root.
func (l *Loader) WorkDir() string {
	return l.workDir
}

// Load loads all layers. It never fails: unreadable files and invalid values are
// logged, reported in the result and skipped, so the result is always usable.
func (l *Loader) Load(flags map[string]any) *LoadResult {
	res := &LoadResult{Report: newReport(), Ignored: []string{}}
	k := koanf.New(".")

	if path := l.FindConfigFile(); path != "" {
		if err := l.loadFile(k, path); err != nil {
			l.log.Warn("failed to load config file, using defaults", "path", path, "error", err.Error())

			sentinel := ErrLoadFailed
			if errors.Is(err, ErrInvalidPermissions) {
				sentinel = ErrInvalidPermissions
			}

			res.Report.addError(filepath.Base(path), sentinel, detailOf(err, sentinel))
			k = koanf.New(".")
		} else {
			res.Source = path
			l.log.Debug("loaded config file", "path", path)
		}
	} else if exe := l.FindExecutableConfig(); exe != "" {
		l.log.Warn("executable config files are not evaluated, using defaults", "path", exe)
		res.Executable = exe
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
		EnvironFunc:   l.environ,
	}

	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		l.log.Warn("failed to load environment variables", "error", err.Error())
	}

	if len(flags) > 0 {
		if err := k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			l.log.Warn("failed to load flags", "error", err.Error())
		}
	}

	res.User = l.decodeUser(k.Raw(), res)
	res.Config = MergeConfig(DefaultConfig(), res.User)

	return res
}

// FindConfigFile returns the first existing project configuration file, or "".
func (l *Loader) FindConfigFile() string {
	return findFirst(l.workDir, ConfigFiles)
}

// FindExecutableConfig returns the first existing executable configuration file, or "".
func (l *Loader) FindExecutableConfig() string {
	return findFirst(l.workDir, ExecutableConfigFiles)
}

// LoadFileOnly parses the project configuration file without defaults, environment
// or flags. It returns an empty koanf instance and "" when no file exists.
func (l *Loader) LoadFileOnly() (*koanf.Koanf, string, error) {
	k := koanf.New(".")

	path := l.FindConfigFile()
	if path == "" {
		return k, "", nil
	}

	if err := l.loadFile(k, path); err != nil {
		return nil, path, err
	}

	return k, path, nil
}

// loadFile loads a configuration file with security checks.
func (*Loader) loadFile(k *koanf.Koanf, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(ErrLoadFailed, err.Error())
	}

	// Reject world-writable files.
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	parser, err := ParserFor(path)
	if err != nil {
		return err
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(ErrLoadFailed, "%s: %v", filepath.Base(path), err)
	}

	return nil
}

// ParserFor returns the koanf parser for the file extension of path.
//
//nolint:ireturn // koanf.Parser is the provider contract
func ParserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return tomlparser.Parser(), nil
	case ".json":
		return jsonparser.Parser(), nil
	case ".yaml", ".yml":
		return yamlparser.Parser(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Base(path))
	}
}

// decodeUser decodes the raw user layers section by section, dropping what fails.
func (l *Loader) decodeUser(raw map[string]any, res *LoadResult) *config.Config {
	user := &config.Config{}

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]

		switch key {
		case sectionCommit:
			user.Commit = l.decodeCommit(value, res)

		case sectionLint:
			var lint config.LintConfig
			if err := decode(value, &lint); err != nil {
				res.ignore(l.log, sectionLint, ErrInvalidSection, detailOf(err, ErrInvalidSection))

				continue
			}

			user.Lint = &lint

		case sectionProject:
			var project config.ProjectConfig
			if err := decode(value, &project); err != nil {
				res.ignore(l.log, sectionProject, ErrInvalidSection, detailOf(err, ErrInvalidSection))

				continue
			}

			user.Project = &project

		default:
			if user.Extra == nil {
				user.Extra = make(map[string]any)
			}

			user.Extra[key] = value
		}
	}

	return user
}

// decodeCommit decodes each commit field independently so one bad field does not
// discard the others. Fields that fail to decode or validate are ignored.
func (l *Loader) decodeCommit(value any, res *LoadResult) *config.CommitConfig {
	m, ok := value.(map[string]any)
	if !ok {
		res.ignore(l.log, sectionCommit, ErrInvalidSection, "")

		return nil
	}

	c := &config.CommitConfig{}

	if v, ok := m["max_length"]; ok {
		var n int
		if err := decodeInt(v, &n); err != nil {
			res.ignore(l.log, fieldMaxLength, ErrInvalidMaxLength, detailOf(err, ErrInvalidMaxLength))
		} else if l.accept(res, fieldMaxLength, &config.CommitConfig{MaxLength: &n}) {
			c.MaxLength = &n
		}
	}

	if v, ok := m["allow_merge_commits"]; ok {
		var b bool
		if err := decode(v, &b); err != nil {
			res.ignore(l.log, fieldAllowMerge, ErrInvalidMergeFlag, detailOf(err, ErrInvalidMergeFlag))
		} else {
			c.AllowMergeCommits = &b
		}
	}

	if v, ok := m["types"]; ok {
		c.Types = l.decodeTypes(v, res)
	}

	if v, ok := m["rules"]; ok {
		c.Rules = l.decodeRules(v, res)
	}

	if v, ok := m["custom_patterns"]; ok {
		c.CustomPatterns = l.decodePatterns(v, res)
	}

	return c
}

// accept merges the validation of probe into the report and reports whether it passed.
func (l *Loader) accept(res *LoadResult, field string, probe *config.CommitConfig) bool {
	report := ValidateCommit(probe)
	res.Report.Warnings = append(res.Report.Warnings, report.Warnings...)

	if report.Valid {
		return true
	}

	for _, issue := range report.Errors {
		res.ignore(l.log, field, issue.Err, issue.Detail)
	}

	return false
}

func (l *Loader) decodeTypes(v any, res *LoadResult) []string {
	if !isSlice(v) {
		res.ignore(l.log, fieldTypes, ErrTypesNotArray, "")

		return nil
	}

	var types []string
	if err := decode(v, &types); err != nil {
		res.ignore(l.log, fieldTypes, ErrEmptyType, detailOf(err, ErrEmptyType))

		return nil
	}

	if !l.accept(res, fieldTypes, &config.CommitConfig{Types: types}) {
		return nil
	}

	return types
}

func (l *Loader) decodeRules(v any, res *LoadResult) []config.CommitRule {
	if !isSlice(v) {
		res.ignore(l.log, fieldRules, ErrRulesNotArray, "")

		return nil
	}

	items := toSlice(v)
	rules := make([]config.CommitRule, 0, len(items))
	reported := false

	for i, item := range items {
		rule, err := decodeRule(item)
		if err != nil {
			field := fieldRules + "[" + strconv.Itoa(i) + "]"
			if !reported {
				sentinel := ruleSentinel(err)
				res.Report.addError(fieldRules, sentinel, detailOf(err, sentinel))
				reported = true
			}

			res.Ignored = append(res.Ignored, field)
			l.log.Warn("ignoring invalid commit rule", "field", field, "error", err.Error())

			continue
		}

		rules = append(rules, rule)
	}

	return rules
}

func decodeRule(item any) (config.CommitRule, error) {
	var rule config.CommitRule

	m, ok := item.(map[string]any)
	if !ok {
		return rule, ErrInvalidRulePattern
	}

	if err := decode(m["pattern"], &rule.Pattern); err != nil {
		return rule, errors.Wrap(ErrInvalidRulePattern, err.Error())
	}

	if msg, ok := m["message"].(string); ok {
		rule.Message = msg
	}

	if err := validateRule(rule); err != nil {
		return rule, err
	}

	if examples, ok := m["examples"]; ok {
		if err := decode(examples, &rule.Examples); err != nil {
			return rule, errors.Wrap(ErrInvalidRuleMessage, err.Error())
		}
	}

	return rule, nil
}

func (l *Loader) decodePatterns(v any, res *LoadResult) []*config.Pattern {
	if !isSlice(v) {
		res.ignore(l.log, fieldCustomPatterns, ErrPatternsNotArray, "")

		return nil
	}

	items := toSlice(v)
	patterns := make([]*config.Pattern, 0, len(items))
	reported := false

	for i, item := range items {
		var p *config.Pattern

		err := decode(item, &p)
		if err == nil && p == nil {
			err = ErrInvalidCustomPattern
		}

		if err != nil {
			field := fieldCustomPatterns + "[" + strconv.Itoa(i) + "]"
			if !reported {
				res.Report.addError(fieldCustomPatterns, ErrInvalidCustomPattern, detailOf(err, ErrInvalidCustomPattern))
				reported = true
			}

			res.Ignored = append(res.Ignored, field)
			l.log.Warn("ignoring invalid custom pattern", "field", field, "error", err.Error())

			continue
		}

		patterns = append(patterns, p)
	}

	return patterns
}

// decodeInt decodes v into n, rejecting floats with a fractional part.
func decodeInt(v any, n *int) error {
	switch f := v.(type) {
	case float64:
		if f != math.Trunc(f) {
			return errors.Newf("%v is not an integer", f)
		}
	case float32:
		if float64(f) != math.Trunc(float64(f)) {
			return errors.Newf("%v is not an integer", f)
		}
	}

	return decode(v, n)
}

// ruleSentinel returns the sentinel a rule decode error wraps.
func ruleSentinel(err error) error {
	if errors.Is(err, ErrInvalidRuleMessage) {
		return ErrInvalidRuleMessage
	}

	return ErrInvalidRulePattern
}

// detailOf returns the message of err without sentinel and without the
// mapstructure field prefix, or "" when err is sentinel itself.
func detailOf(err, sentinel error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if msg == sentinel.Error() {
		return ""
	}

	msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	msg = strings.TrimPrefix(msg, decodeErrorPrefix)

	return strings.TrimPrefix(msg, "'' ")
}

func isSlice(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Slice
}

func toSlice(v any) []any {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())

	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

// envTransform maps environment variables onto config paths.
// LAVY_COMMIT_MAX_LENGTH → commit.max_length, LAVY_LINT_ESLINT_ENABLED → lint.eslint.enabled.
// Variables that do not name a config field (LAVY_LANG, LAVY_DEBUG) are skipped.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return "", nil
	}

	switch section {
	case sectionCommit:
		switch rest {
		case "max_length":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				return fieldMaxLength, n
			}

			return fieldMaxLength, value

		case "allow_merge_commits":
			if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
				return fieldAllowMerge, b
			}

			return fieldAllowMerge, value

		case "types", "custom_patterns":
			return sectionCommit + "." + rest, splitList(value)
		}

	case sectionProject:
		switch rest {
		case "language", "framework", "style", "linter", "platform":
			return sectionProject + "." + rest, value
		}

	case sectionLint:
		linter, field, ok := strings.Cut(rest, "_")
		if !ok || !isLinter(linter) {
			return "", nil
		}

		path := sectionLint + "." + linter + "." + field

		switch field {
		case "enabled":
			if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
				return path, b
			}

			return path, value

		case "config":
			return path, value

		case "ignore":
			return path, splitList(value)
		}
	}

	return "", nil
}

func isLinter(name string) bool {
	switch name {
	case "eslint", "stylelint", "prettier", "biome":
		return true
	default:
		return false
	}
}

// splitList splits a comma separated environment value.
func splitList(value string) []any {
	parts := strings.Split(value, ",")
	out := make([]any, 0, len(parts))

	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}

	return out
}

// flagsToConfig converts CLI flags to a nested configuration map.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any)

	for key, value := range flags {
		switch key {
		case "max-length":
			if n, ok := value.(int); ok {
				flat[fieldMaxLength] = n
			}

		case "no-merge-commits":
			if b, ok := value.(bool); ok && b {
				flat[fieldAllowMerge] = false
			}

		case "types":
			if types, ok := value.([]string); ok && len(types) > 0 {
				list := make([]any, 0, len(types))
				for _, t := range types {
					list = append(list, t)
				}

				flat[fieldTypes] = list
			}
		}
	}

	return kmaps.Unflatten(flat, ".")
}

func findFirst(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
