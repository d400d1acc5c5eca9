package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/conflict"
	"github.com/lavy-dev/lavy/internal/doctor"
	configchecker "github.com/lavy-dev/lavy/internal/doctor/checkers/config"
	conflictchecker "github.com/lavy-dev/lavy/internal/doctor/checkers/conflict"
	gitchecker "github.com/lavy-dev/lavy/internal/doctor/checkers/git"
	"github.com/lavy-dev/lavy/internal/doctor/checkers/selftest"
	"github.com/lavy-dev/lavy/internal/doctor/fixers"
	"github.com/lavy-dev/lavy/internal/doctor/reporters"
)

var (
	verboseFlag  bool
	tableFlag    bool
	fixFlag      bool
	categoryFlag []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the lavy setup of a project",
	Long: `Diagnose the lavy setup of a project.

Checks:
- Configuration file presence and validity
- Competing lint configuration files
- Git repository and commit-msg hook
- Validator self-test

Examples:
  lavy doctor                     # Run all checks
  lavy doctor --verbose           # Show details for every check
  lavy doctor --fix               # Apply the available fixes
  lavy doctor --category config,git  # Check specific categories`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(
		&verboseFlag,
		"verbose",
		"v",
		false,
		"Enable verbose output with detailed context",
	)

	doctorCmd.Flags().BoolVar(&tableFlag, "table", false, "Render the results as a table")

	doctorCmd.Flags().BoolVar(
		&fixFlag,
		"fix",
		false,
		"Automatically fix issues without prompting",
	)

	doctorCmd.Flags().StringSliceVar(
		&categoryFlag,
		"category",
		[]string{},
		"Filter checks by category (config, conflict, git, validator)",
	)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	e.log.Info("starting doctor command",
		"verbose", verboseFlag,
		"fix", fixFlag,
		"categories", categoryFlag,
	)

	registry := buildDoctorRegistry(e)
	registerFixers(registry, e)

	runner := doctor.NewRunner(registry, selectReporter(e), e.out, e.tr, e.log)

	opts := doctor.RunOptions{
		Verbose:    verboseFlag,
		AutoFix:    fixFlag,
		Categories: parseCategories(cmd.ErrOrStderr(), categoryFlag),
	}

	if err := runner.Run(cmd.Context(), opts); err != nil {
		if errors.Is(err, doctor.ErrChecksFailed) {
			return errFailed
		}

		return errors.Wrap(err, "doctor command failed")
	}

	return nil
}

// buildDoctorRegistry creates and populates the health check registry.
func buildDoctorRegistry(e *env) *doctor.Registry {
	registry := doctor.NewRegistry()
	loader := config.NewLoader(e.dir, config.WithLogger(e.log))
	detector := conflict.NewDetector(e.log)

	registry.RegisterChecker(configchecker.NewFileChecker(loader, e.tr))
	registry.RegisterChecker(configchecker.NewValidChecker(loader, e.tr))
	registry.RegisterChecker(conflictchecker.NewChecker(detector, e.dir, e.tr))
	registry.RegisterChecker(gitchecker.NewRepoChecker(e.dir, e.tr))
	registry.RegisterChecker(gitchecker.NewHookChecker(e.dir, e.tr))
	registry.RegisterChecker(selftest.NewChecker(e.tr))

	return registry
}

func registerFixers(registry *doctor.Registry, e *env) {
	registry.RegisterFixer(fixers.NewInitConfigFixer(config.NewWriter(e.dir, e.log), e.tr))
	registry.RegisterFixer(fixers.NewRemoveConflictsFixer(
		conflict.NewDetector(e.log),
		e.dir,
		e.out,
		e.theme,
		e.tr,
	))
	registry.RegisterFixer(fixers.NewInstallHookFixer(e.dir, e.tr))
}

// parseCategories converts category names, warning about unknown ones.
func parseCategories(stderr io.Writer, names []string) []doctor.Category {
	if len(names) == 0 {
		return nil
	}

	known := make(map[string]doctor.Category, len(doctor.Categories))
	for _, c := range doctor.Categories {
		known[string(c)] = c
	}

	var categories []doctor.Category

	for _, name := range names {
		if cat, ok := known[name]; ok {
			categories = append(categories, cat)
		} else {
			fmt.Fprintf(stderr, "Warning: unknown category %q, ignoring\n", name)
		}
	}

	return categories
}

// selectReporter uses the table on a terminal or with --table, plain text otherwise.
//
//nolint:ireturn // picks the reporter implementation by environment
func selectReporter(e *env) doctor.Reporter {
	if tableFlag || color.IsTerminal(e.out) {
		return reporters.NewTableReporter(e.out, e.theme, e.tr)
	}

	return reporters.NewSimpleReporter(e.out, e.theme, e.tr)
}
