// Package main provides the CLI entry point for lavy.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lavy-dev/lavy/internal/color"
	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/pkg/logger"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeFailure indicates an invalid message, failed checks or a fatal error.
	ExitCodeFailure = 1

	// LangEnv selects the output language when --lang is not given.
	LangEnv = "LAVY_LANG"
)

// errFailed ends a command with ExitCodeFailure after it has printed its own report.
var errFailed = errors.New("failed")

var (
	debugMode   bool
	traceMode   bool
	noColorFlag bool
	langFlag    string
	dirFlag     string
	logFileFlag string
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		return ExitCodeFailure
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "lavy",
	Short: "Commit message validation and project conventions",
	Long: `lavy validates commit messages against a configurable convention
(type(scope): subject) and checks a project for competing lint configurations.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(
		&langFlag,
		"lang",
		"",
		"Output language (zh, en); defaults to $"+LangEnv+" or zh",
	)
	rootCmd.PersistentFlags().StringVarP(
		&dirFlag,
		"dir",
		"C",
		"",
		"Project root (default: current directory)",
	)
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Append logs to this file instead of stderr")
}

// env is what every subcommand needs: where to work, how to log and how to print.
type env struct {
	dir   string
	log   logger.Logger
	tr    *i18n.Translator
	theme color.Theme
	out   io.Writer
}

func newEnv(cmd *cobra.Command) (*env, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	tr, err := translator()
	if err != nil {
		return nil, err
	}

	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()

	log.Debug("command started",
		"command", cmd.Name(),
		"dir", dir,
		"lang", tr.Language(),
	)

	return &env{
		dir:   dir,
		log:   log,
		tr:    tr,
		theme: color.ForWriter(out, noColorFlag),
		out:   out,
	}, nil
}

func newLogger(cmd *cobra.Command) (logger.Logger, error) {
	level := logger.LevelFromFlags(debugMode, traceMode)

	if logFileFlag == "" {
		return logger.NewWriterLogger(cmd.ErrOrStderr(), level), nil
	}

	log, err := logger.NewFileLogger(logFileFlag, level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	return log, nil
}

// translator honours --lang strictly and LAVY_LANG leniently.
func translator() (*i18n.Translator, error) {
	if langFlag != "" {
		tr, err := i18n.New(langFlag)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --lang")
		}

		return tr, nil
	}

	return i18n.Fallback(os.Getenv(LangEnv)), nil
}

func projectDir() (string, error) {
	dir := dirFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "failed to get working directory")
		}

		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", dir)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Wrap(err, "invalid project directory")
	}

	if !info.IsDir() {
		return "", errors.Newf("invalid project directory: %s is not a directory", abs)
	}

	return abs, nil
}
