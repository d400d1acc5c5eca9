// Package config provides internal configuration loading and processing.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/lavy-dev/lavy/pkg/config"
	"github.com/lavy-dev/lavy/pkg/logger"
)

// ConfigFileMode is the file mode for created configuration files (user read/write only).
const ConfigFileMode = 0o600

// WriteAction describes what InitCommit did.
type WriteAction string

const (
	// ActionCreated means a new configuration file was written.
	ActionCreated WriteAction = "created"

	// ActionAppended means the commit section was added to an existing file.
	ActionAppended WriteAction = "appended"

	// ActionUnchanged means the file already had a commit section.
	ActionUnchanged WriteAction = "unchanged"
)

// WriteResult is the outcome of Writer.InitCommit.
type WriteResult struct {
	Path   string
	Action WriteAction
}

// Writer writes the default commit section into the project configuration.
type Writer struct {
	workDir string
	log     logger.Logger
}

// NewWriter creates a Writer for the project rooted at workDir.
func NewWriter(workDir string, log logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Writer{workDir: workDir, log: log}
}

// InitCommit makes sure the project configuration has a commit section.
// Without a configuration file it creates lavy.config.toml. An existing file
// without a commit section gets the default one; TOML files are appended to so
// their comments survive, JSON and YAML files are re-encoded.
func (w *Writer) InitCommit() (*WriteResult, error) {
	path := findFirst(w.workDir, ConfigFiles)
	if path == "" {
		path = filepath.Join(w.workDir, DefaultConfigFile)

		if err := os.WriteFile(path, newConfigFile(), ConfigFileMode); err != nil {
			return nil, errors.Wrapf(err, "failed to write config file %s", path)
		}

		w.log.Info("created config file", "path", path)

		return &WriteResult{Path: path, Action: ActionCreated}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat config file %s", path)
	}

	parser, err := ParserFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(ErrLoadFailed, "%s: %v", filepath.Base(path), err)
	}

	if k.Exists(sectionCommit) {
		return &WriteResult{Path: path, Action: ActionUnchanged}, nil
	}

	var out []byte

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		out = appendSection(data, commitSection())
	} else {
		if err := k.Set(sectionCommit, defaultCommitMap()); err != nil {
			return nil, errors.Wrap(err, "failed to add commit section")
		}

		out, err = k.Marshal(parser)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s", filepath.Base(path))
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			out = indentJSON(out)
		}
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return nil, errors.Wrapf(err, "failed to write config file %s", path)
	}

	w.log.Info("added commit section to config file", "path", path)

	return &WriteResult{Path: path, Action: ActionAppended}, nil
}

// initSection is the TOML shape of the generated commit section.
type initSection struct {
	Commit initCommit `toml:"commit"`
}

type initCommit struct {
	Types             []string `toml:"types" comment:"Allowed commit types, in display order"`
	MaxLength         int      `toml:"max_length" comment:"Maximum message length in characters"`
	AllowMergeCommits bool     `toml:"allow_merge_commits" comment:"Accept messages starting with \"Merge\""`
}

const configHeader = `# lavy configuration
# Run "lavy config show" to see the effective settings.

`

const commitExamples = `
  # Patterns that only warn when a message does not match.
  # custom_patterns = ['#\d+']

  # Rules reject messages their pattern does not match.
  # [[commit.rules]]
  #   pattern = '/^[a-z]+: .*[^!]$/'
  #   message = 'commit message must not end with "!"'
  #   examples = ['feat: add login', 'fix: handle empty input']
`

func commitSection() []byte {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)

	// The section is built from static values and always encodes.
	_ = enc.Encode(initSection{Commit: initCommit{
		Types:             slices.Clone(config.DefaultCommitTypes),
		MaxLength:         config.DefaultMaxLength,
		AllowMergeCommits: true,
	}})

	buf.WriteString(commitExamples)

	return buf.Bytes()
}

func newConfigFile() []byte {
	return append([]byte(configHeader), commitSection()...)
}

func appendSection(existing, section []byte) []byte {
	out := bytes.TrimRight(existing, "\n")
	if len(out) > 0 {
		out = append(out, "\n\n"...)
	}

	return append(out, section...)
}

func defaultCommitMap() map[string]any {
	return map[string]any{
		"types":               slices.Clone(config.DefaultCommitTypes),
		"max_length":          config.DefaultMaxLength,
		"allow_merge_commits": true,
		"rules":               []any{},
		"custom_patterns":     []any{},
	}
}

func indentJSON(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return data
	}

	buf.WriteByte('\n')

	return buf.Bytes()
}
