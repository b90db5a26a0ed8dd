package cmd

import (
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/txn"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase [path]",
	Short: "Re-baseline overlays against the current HEAD",
	Long:  `3-way merge every registered overlay's shadow content against whatever changed upstream, updating its recorded baseline. With no argument every overlay is rebased.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRebase,
}

func runRebase(_ *cobra.Command, args []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	if reg.Empty() {
		ui.Inf("no managed files")
		return nil
	}

	target := ""
	if len(args) == 1 {
		target, err = shadowpath.Normalize(repo.Root, args[0])
		if err != nil {
			return err
		}
	}

	_, err = txn.Rebase(repo, reg, target)
	return err
}
