package cmd

import (
	"os"

	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "git-shadow",
	Short:         "Manage local-only changes in Git repositories",
	Long:          `git-shadow hides local, uncommitted edits to tracked files from the commit history, and keeps local-only files out of Git's view entirely.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(rebaseCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(suspendCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(hookCmd)
}
