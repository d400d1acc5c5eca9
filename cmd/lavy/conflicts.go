package main

import (
	"github.com/spf13/cobra"

	"github.com/lavy-dev/lavy/internal/conflict"
)

var conflictsForce bool

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Detect lint configuration files that compete with lavy",
	Long: `Detect ESLint, Prettier, Stylelint, Biome and legacy lavy configuration
files in the project root.

Examples:
  lavy conflicts           # List the conflicting files
  lavy conflicts --force   # Remove them (lavy.config.* files are kept)`,
	Args: cobra.NoArgs,
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)

	conflictsCmd.Flags().BoolVarP(
		&conflictsForce,
		"force",
		"f",
		false,
		"Remove the conflicting files",
	)
}

func runConflicts(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	detector := conflict.NewDetector(e.log)
	info := detector.Detect(e.dir)

	if !conflictsForce || !info.HasConflict {
		conflict.Report(e.out, info, e.theme, e.tr)

		return nil
	}

	removal := detector.Remove(e.dir, info)
	conflict.ReportRemoval(e.out, removal, e.theme, e.tr)

	if len(removal.Failed) > 0 {
		return errFailed
	}

	return nil
}
