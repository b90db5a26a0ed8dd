package cmd

import (
	"fmt"

	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/txn"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var suspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Temporarily clear managed files from the working tree",
	Long:  `Move every managed path's shadow content into an archive, leaving overlays at their baseline and removing phantom files, so the working tree is clean enough to switch branches.`,
	RunE:  runSuspend,
}

func runSuspend(_ *cobra.Command, _ []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	if reg.Empty() {
		ui.Inf("no managed files to suspend")
		return nil
	}

	count, err := txn.Suspend(repo, reg)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("shadow changes suspended for %d file(s)", count))
	ui.Inf("working tree is now clean, you can switch branches")
	return nil
}
