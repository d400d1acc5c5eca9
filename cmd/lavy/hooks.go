package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lavy-dev/lavy/internal/git"
	"github.com/lavy-dev/lavy/internal/i18n"
)

var hooksForce bool

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage git hooks",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the commit-msg hook",
	Long: `Install a commit-msg hook that runs lavy commit --edit on every commit.

Examples:
  lavy hooks install           # Install unless a hook exists
  lavy hooks install --force   # Replace an existing hook`,
	Args: cobra.NoArgs,
	RunE: runHooksInstall,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksInstallCmd)

	hooksInstallCmd.Flags().BoolVarP(&hooksForce, "force", "f", false, "Replace an existing commit-msg hook")
}

func runHooksInstall(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	repo, err := git.OpenRepository(e.dir)
	if err != nil {
		fmt.Fprintln(e.out, e.tr.T("hint_git_repo"))

		return err
	}

	path, err := repo.InstallCommitMsgHook(hooksForce)
	if err != nil {
		if errors.Is(err, git.ErrHookExists) {
			fmt.Fprintln(e.out, e.theme.Warning.Render(e.tr.T("hook_exists", i18n.Data{"Path": path})))

			return errFailed
		}

		return err
	}

	e.log.Info("installed commit-msg hook", "path", path)
	fmt.Fprintln(e.out, e.theme.Success.Render(e.tr.T("hook_installed")))

	return nil
}
