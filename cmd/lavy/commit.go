package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lavy-dev/lavy/internal/commit"
	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/doctor"
	configchecker "github.com/lavy-dev/lavy/internal/doctor/checkers/config"
	"github.com/lavy-dev/lavy/internal/doctor/reporters"
	"github.com/lavy-dev/lavy/internal/git"
	"github.com/lavy-dev/lavy/internal/i18n"
)

var (
	commitMessage    string
	commitEdit       bool
	commitTest       bool
	commitInit       bool
	commitShowConfig bool
	commitMaxLength  int
	commitNoMerge    bool
	commitTypes      []string
)

var commitCmd = &cobra.Command{
	Use:   "commit [file]",
	Short: "Validate a commit message",
	Long: `Validate a commit message against the project configuration.

Without flags the message of the HEAD commit is validated.

Examples:
  lavy commit -m "feat: add login"   # Validate a message
  lavy commit --edit .git/COMMIT_EDITMSG
                                     # Validate a message file (commit-msg hook)
  lavy commit                        # Validate the current commit
  lavy commit --config               # Show the effective configuration
  lavy commit --init                 # Create or complete lavy.config.toml
  lavy commit --test                 # Run the validator self-test`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message to validate")
	commitCmd.Flags().BoolVarP(
		&commitEdit,
		"edit",
		"e",
		false,
		"Validate the message file given as argument (default: .git/COMMIT_EDITMSG)",
	)
	commitCmd.Flags().BoolVarP(&commitTest, "test", "t", false, "Run the validator self-test")
	commitCmd.Flags().BoolVarP(&commitInit, "init", "i", false, "Add the commit section to the configuration")
	commitCmd.Flags().BoolVarP(&commitShowConfig, "config", "c", false, "Show the effective configuration")
	commitCmd.Flags().IntVar(&commitMaxLength, "max-length", 0, "Override commit.max_length")
	commitCmd.Flags().BoolVar(&commitNoMerge, "no-merge-commits", false, "Reject merge commit messages")
	commitCmd.Flags().StringSliceVar(&commitTypes, "types", nil, "Override commit.types")
}

// configFlags collects the config overrides that were set on cmd.
func configFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	if cmd.Flags().Changed("max-length") {
		flags["max-length"] = commitMaxLength
	}

	if cmd.Flags().Changed("no-merge-commits") {
		flags["no-merge-commits"] = commitNoMerge
	}

	if cmd.Flags().Changed("types") {
		flags["types"] = commitTypes
	}

	return flags
}

func runCommit(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	switch {
	case commitInit:
		return runInit(e)
	case commitShowConfig:
		return showConfig(e, configFlags(cmd))
	case commitTest:
		return runSelfTest(cmd.Context(), e, configFlags(cmd))
	}

	res := config.NewLoader(e.dir, config.WithLogger(e.log)).Load(configFlags(cmd))
	v := commit.NewValidator(res.Config.Commit, commit.WithTranslator(e.tr), commit.WithLogger(e.log))

	var message string

	switch {
	case commitEdit:
		message, err = readEditMessage(e, v, args)
	case cmd.Flags().Changed("message"):
		message = commitMessage
	case len(args) > 0:
		return errors.Newf("unexpected argument %q, use --edit to validate a file", args[0])
	default:
		message, err = readHeadMessage(e, v)
	}

	if err != nil {
		return err
	}

	result := v.Validate(message)
	commit.Report(e.out, result, v, e.theme)

	e.log.Info("commit message checked", "valid", result.Valid, "source", res.Source)

	if commit.ExitCode(result) != commit.ExitValid {
		return errFailed
	}

	return nil
}

func readEditMessage(e *env, v *commit.Validator, args []string) (string, error) {
	var path string

	if len(args) > 0 {
		path = args[0]
	} else {
		repo, err := git.OpenRepository(e.dir)
		if err != nil {
			fmt.Fprintln(e.out, e.tr.T("edit_usage"))

			return "", err
		}

		if path, err = repo.DefaultMessageFile(); err != nil {
			return "", err
		}
	}

	message, err := git.ReadMessageFile(path)
	if err != nil {
		fmt.Fprintln(e.out, e.tr.T("edit_usage"))

		return "", err
	}

	commit.ReportSource(e.out, v, "report_file", i18n.Data{"Path": path}, e.theme)
	commit.ReportSource(e.out, v, "report_message", i18n.Data{"Message": message}, e.theme)
	fmt.Fprintln(e.out)

	return message, nil
}

func readHeadMessage(e *env, v *commit.Validator) (string, error) {
	repo, err := git.OpenRepository(e.dir)
	if err != nil {
		fmt.Fprintln(e.out, e.tr.T("hint_git_repo"))

		return "", err
	}

	message, err := repo.HeadMessage()
	if err != nil {
		return "", err
	}

	hash, err := repo.HeadHash()
	if err != nil {
		return "", err
	}

	commit.ReportSource(e.out, v, "report_head", i18n.Data{"Hash": hash}, e.theme)
	fmt.Fprintln(e.out)

	return message, nil
}

func runInit(e *env) error {
	res, err := config.NewWriter(e.dir, e.log).InitCommit()
	if err != nil {
		return err
	}

	switch res.Action {
	case config.ActionCreated:
		fmt.Fprintln(e.out, e.theme.Success.Render(e.tr.T("init_created")))
	case config.ActionAppended:
		fmt.Fprintln(e.out, e.theme.Success.Render(e.tr.T("init_appended")))
	default:
		fmt.Fprintln(e.out, e.theme.Success.Render(e.tr.T("init_exists")))
	}

	fmt.Fprintln(e.out, e.tr.T("config_file", i18n.Data{"Path": res.Path}))

	if res.Action != config.ActionUnchanged {
		fmt.Fprintln(e.out, e.tr.T("init_edit_hint"))
	}

	return nil
}

// runSelfTest checks the configuration, then runs the validator battery
// against the effective configuration.
func runSelfTest(ctx context.Context, e *env, flags map[string]any) error {
	loader := config.NewLoader(e.dir, config.WithLogger(e.log))

	registry := doctor.NewRegistry()
	registry.RegisterChecker(configchecker.NewFileChecker(loader, e.tr))
	registry.RegisterChecker(configchecker.NewValidChecker(loader, e.tr))

	results := registry.RunAll(ctx)
	reporters.NewSimpleReporter(e.out, e.theme, e.tr).Report(results, true)
	fmt.Fprintln(e.out)

	res := loader.Load(flags)
	v := commit.NewValidator(res.Config.Commit, commit.WithTranslator(e.tr), commit.WithLogger(e.log))

	outcomes := commit.SelfTest(v)
	commit.ReportSelfTest(e.out, outcomes, v, e.theme)

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, v.TypeDescription())

	if commit.CountPassed(outcomes) != len(outcomes) {
		return errFailed
	}

	return nil
}
