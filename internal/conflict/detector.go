// Package conflict detects tool configuration files that predate lavy in a project.
package conflict

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lavy-dev/lavy/pkg/logger"
)

// Category is the tool family a configuration file belongs to.
type Category string

const (
	CategoryLavy      Category = "lavy"
	CategoryESLint    Category = "eslint"
	CategoryPrettier  Category = "prettier"
	CategoryStylelint Category = "stylelint"
	CategoryBiome     Category = "biome"
	CategoryOther     Category = "other"
)

// Categories lists every category in classification priority order.
var Categories = []Category{
	CategoryLavy,
	CategoryESLint,
	CategoryPrettier,
	CategoryStylelint,
	CategoryBiome,
	CategoryOther,
}

// Candidates are the file names scanned by Detect, in scan order.
var Candidates = []string{
	// lavy
	"lavy.config.js",
	"lavy.config.ts",
	".lavyrc.json",
	".lavyrc.js",
	".lavyrc.ts",
	"lavy.config.toml",
	"lavy.config.json",
	"lavy.config.yaml",
	"lavy.config.yml",

	// eslint
	".eslintrc",
	".eslintrc.js",
	".eslintrc.cjs",
	".eslintrc.json",
	".eslintrc.yaml",
	".eslintrc.yml",
	"eslint.config.js",
	"eslint.config.cjs",

	// prettier
	".prettierrc",
	".prettierrc.js",
	".prettierrc.cjs",
	".prettierrc.json",
	".prettierrc.yaml",
	".prettierrc.yml",
	"prettier.config.js",
	"prettier.config.cjs",

	// stylelint
	".stylelintrc",
	".stylelintrc.js",
	".stylelintrc.cjs",
	".stylelintrc.json",
	".stylelintrc.yaml",
	".stylelintrc.yml",
	"stylelint.config.js",
	"stylelint.config.cjs",

	// biome
	"biome.json",
	"biome.jsonc",
}

// OwnConfigs are lavy's canonical configuration files. They are expected in a
// project: never reported as conflicts and never removed.
var OwnConfigs = []string{
	"lavy.config.js",
	"lavy.config.ts",
	"lavy.config.toml",
	"lavy.config.json",
	"lavy.config.yaml",
	"lavy.config.yml",
}

// Conflict is one existing file that competes with lavy's own setup.
type Conflict struct {
	File     string
	Category Category
}

// Info is the result of one scan.
type Info struct {
	HasConflict bool

	// Conflicts are the existing files other than lavy's own configs, in scan order.
	Conflicts []Conflict

	// ExistingFiles are all candidates present on disk, in scan order.
	ExistingFiles []string

	// Categories holds every category, with an empty slice when nothing matched.
	Categories map[Category][]string

	// HasLavyConfig reports whether one of OwnConfigs exists.
	HasLavyConfig bool
}

// Removal is the outcome of Detector.Remove.
type Removal struct {
	Removed []string
	Failed  map[string]error
}

// Detector scans a project root for competing configuration files.
type Detector struct {
	log logger.Logger
}

// NewDetector creates a Detector. A nil log discards output.
func NewDetector(log logger.Logger) *Detector {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Detector{log: log}
}

// Classify returns the category of file by substring match in priority order.
func Classify(file string) Category {
	for _, c := range Categories[:len(Categories)-1] {
		if strings.Contains(file, string(c)) {
			return c
		}
	}

	return CategoryOther
}

// IsOwnConfig reports whether file is one of lavy's canonical configuration files.
func IsOwnConfig(file string) bool {
	return slices.Contains(OwnConfigs, file)
}

// Detect scans root. It only reads the filesystem and caches nothing.
func (d *Detector) Detect(root string) *Info {
	info := &Info{
		Conflicts:     []Conflict{},
		ExistingFiles: []string{},
		Categories:    make(map[Category][]string, len(Categories)),
	}

	for _, c := range Categories {
		info.Categories[c] = []string{}
	}

	for _, file := range Candidates {
		if !exists(filepath.Join(root, file)) {
			continue
		}

		category := Classify(file)

		info.ExistingFiles = append(info.ExistingFiles, file)
		info.Categories[category] = append(info.Categories[category], file)

		if IsOwnConfig(file) {
			info.HasLavyConfig = true

			continue
		}

		info.Conflicts = append(info.Conflicts, Conflict{File: file, Category: category})
	}

	info.HasConflict = len(info.Conflicts) > 0

	d.log.Debug("scanned for conflicting config files",
		"root", root,
		"existing", len(info.ExistingFiles),
		"conflicts", len(info.Conflicts),
	)

	return info
}

// Resolve removes conflicting files when force is set and reports whether it did.
// Without force nothing is touched and the result is always false. With force
// every existing file except lavy's own configs is removed; per-file failures are
// logged and do not stop the batch.
func (d *Detector) Resolve(root string, force bool) bool {
	if !force {
		return false
	}

	d.Remove(root, d.Detect(root))

	return true
}

// Remove deletes the conflicting files of info and reports each outcome.
func (d *Detector) Remove(root string, info *Info) *Removal {
	res := &Removal{Removed: []string{}, Failed: map[string]error{}}

	if info == nil {
		return res
	}

	for _, file := range info.ExistingFiles {
		if IsOwnConfig(file) {
			continue
		}

		if err := os.Remove(filepath.Join(root, file)); err != nil {
			d.log.Warn("failed to remove config file", "file", file, "error", err.Error())
			res.Failed[file] = err

			continue
		}

		d.log.Info("removed config file", "file", file)
		res.Removed = append(res.Removed, file)
	}

	return res
}

// FailedFiles returns the files that could not be removed, sorted.
func (r *Removal) FailedFiles() []string {
	return slices.Sorted(maps.Keys(r.Failed))
}

func exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}
