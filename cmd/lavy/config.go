package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lavy-dev/lavy/internal/config"
	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/internal/schema"
)

const schemaFileMode = 0o644

var schemaOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the lavy configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective commit configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}

		return showConfig(e, nil)
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration",
	Long: `Print the JSON Schema of the configuration.

Examples:
  lavy config schema                       # Print to stdout
  lavy config schema -o lavy.schema.json   # Write to a file`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configValidateCmd, configSchemaCmd)

	configSchemaCmd.Flags().StringVarP(
		&schemaOutput,
		"output",
		"o",
		"",
		"Write the schema to this file (default: "+schema.Filename()+" when the value is a directory)",
	)
}

// showConfig prints the effective commit configuration and where it came from.
func showConfig(e *env, flags map[string]any) error {
	res := config.NewLoader(e.dir, config.WithLogger(e.log)).Load(flags)
	c := res.Config.Commit
	tr := e.tr

	fmt.Fprintln(e.out, e.theme.Header.Render(tr.T("config_show_header")))
	fmt.Fprintln(e.out)

	switch {
	case res.Source != "":
		fmt.Fprintln(e.out, tr.T("config_file", i18n.Data{"Path": filepath.Base(res.Source)}))
	case res.Executable != "":
		fmt.Fprintln(e.out, e.theme.Warning.Render(tr.T("config_executable", i18n.Data{
			"Path": filepath.Base(res.Executable),
		})))
	default:
		fmt.Fprintln(e.out, e.theme.Warning.Render(tr.T("config_not_found")))
		fmt.Fprintln(e.out, tr.T("config_init_hint"))
	}

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, tr.T("config_types"))

	for _, typ := range c.GetTypes() {
		fmt.Fprintf(e.out, "  • %s\n", e.theme.Name.Render(typ))
	}

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, tr.T("config_max_length", i18n.Data{"Max": c.GetMaxLength()}))
	fmt.Fprintln(e.out, tr.T("config_merge", i18n.Data{"Allowed": tr.YesNo(c.IsMergeCommitsAllowed())}))

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, tr.T("config_rules"))

	if len(c.Rules) == 0 {
		fmt.Fprintln(e.out, "  "+e.theme.Muted.Render(tr.T("config_no_rules")))
	}

	for i, rule := range c.Rules {
		fmt.Fprintf(e.out, "  %d. %s\n", i+1, rule.Message)
		fmt.Fprintf(e.out, "     %s\n", e.theme.Muted.Render(rule.Pattern.String()))

		if len(rule.Examples) > 0 {
			fmt.Fprintf(e.out, "     %s\n", tr.T("config_rule_examples", i18n.Data{
				"Examples": strings.Join(rule.Examples, ", "),
			}))
		}
	}

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, tr.T("config_patterns"))

	if len(c.CustomPatterns) == 0 {
		fmt.Fprintln(e.out, "  "+e.theme.Muted.Render(tr.T("config_no_patterns")))
	}

	for _, p := range c.CustomPatterns {
		fmt.Fprintf(e.out, "  • %s\n", p.String())
	}

	if len(res.Ignored) > 0 {
		fmt.Fprintln(e.out)
		fmt.Fprintln(e.out, e.theme.Warning.Render(tr.T("config_ignored")))

		for _, field := range res.Ignored {
			fmt.Fprintf(e.out, "  - %s\n", field)
		}
	}

	writeIssues(e, res.Report)

	hintPath := config.DefaultConfigFile
	if res.Source != "" {
		hintPath = filepath.Base(res.Source)
	}

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, tr.T("config_hint", i18n.Data{"Path": hintPath}))

	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	res := config.NewLoader(e.dir, config.WithLogger(e.log)).Load(nil)

	switch {
	case res.Source != "":
		fmt.Fprintln(e.out, e.tr.T("config_file", i18n.Data{"Path": filepath.Base(res.Source)}))
	case res.Executable != "":
		fmt.Fprintln(e.out, e.theme.Warning.Render(e.tr.T("config_executable", i18n.Data{
			"Path": filepath.Base(res.Executable),
		})))
	default:
		fmt.Fprintln(e.out, e.theme.Warning.Render(e.tr.T("config_not_found")))
	}

	writeIssues(e, res.Report)

	if err := res.Report.Err(); err != nil {
		e.log.Info("configuration invalid", "error", err.Error())

		return errFailed
	}

	fmt.Fprintln(e.out, e.theme.Success.Render(e.tr.T("config_valid")))

	return nil
}

func writeIssues(e *env, report *config.ValidationReport) {
	if errs := report.ErrorMessages(e.tr); len(errs) > 0 {
		fmt.Fprintln(e.out)
		fmt.Fprintln(e.out, e.theme.Error.Render(e.tr.T("config_errors")))

		for _, msg := range errs {
			fmt.Fprintf(e.out, "  - %s\n", msg)
		}
	}

	if warnings := report.WarningMessages(e.tr); len(warnings) > 0 {
		fmt.Fprintln(e.out)
		fmt.Fprintln(e.out, e.theme.Warning.Render(e.tr.T("config_warnings")))

		for _, msg := range warnings {
			fmt.Fprintf(e.out, "  - %s\n", msg)
		}
	}
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(true)
	if err != nil {
		return err
	}

	if schemaOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)

		return errors.Wrap(err, "failed to write schema")
	}

	path := schemaOutput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, schema.Filename())
	}

	if err := os.WriteFile(filepath.Clean(path), data, schemaFileMode); err != nil {
		return errors.Wrapf(err, "failed to write schema to %s", path)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)

	return nil
}
