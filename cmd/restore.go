package cmd

import (
	"fmt"

	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/txn"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [path]",
	Short: "Recover from a crashed commit transaction",
	Long:  `Drain any stashed content back into the working tree and clear a held lockfile, regardless of which process holds it. Run this manually once you've confirmed no other git-shadow process is actually running.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRestore,
}

func runRestore(_ *cobra.Command, args []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	onlyPath := ""
	if len(args) == 1 {
		onlyPath, err = shadowpath.Normalize(repo.Root, args[0])
		if err != nil {
			return err
		}
	}

	result, err := txn.Restore(repo, onlyPath)
	if err != nil {
		return err
	}

	if len(result.RestoredPaths) == 0 && !result.LockRemoved {
		ui.Inf("nothing to restore")
		return nil
	}

	if len(result.RestoredPaths) > 0 {
		ui.Ok("restored files:")
		for _, p := range result.RestoredPaths {
			fmt.Printf("  %s\n", p)
		}
	}
	if result.LockRemoved {
		ui.Ok("lockfile cleared")
	}

	return nil
}
