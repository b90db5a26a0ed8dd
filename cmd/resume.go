package cmd

import (
	"fmt"

	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/txn"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Restore managed files suspended by `git-shadow suspend`",
	Long:  `Restore every managed path's content from the suspended archive, 3-way merging overlays whose baseline drifted while suspended.`,
	RunE:  runResume,
}

func runResume(_ *cobra.Command, _ []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	count, err := txn.Resume(repo, reg)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("shadow changes resumed for %d file(s)", count))
	return nil
}
