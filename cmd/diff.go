package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/diffutil"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowerr"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show the hidden local changes for managed files",
	Long:  `Print a unified diff between a managed path's baseline and its current working-tree content. With no argument, every managed path is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiff,
}

func runDiff(_ *cobra.Command, args []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		normalized, err := shadowpath.Normalize(repo.Root, args[0])
		if err != nil {
			return err
		}
		entry, ok := reg.Get(normalized)
		if !ok {
			return shadowerr.ErrNotManagedByShadow{Path: normalized}
		}
		return showDiff(repo, normalized, entry)
	}

	if reg.Empty() {
		ui.Inf("no files are managed")
		return nil
	}

	for i, pe := range reg.Entries() {
		if i > 0 {
			fmt.Println()
		}
		if err := showDiff(repo, pe.Path, pe.Entry); err != nil {
			ui.Warn(err.Error())
		}
	}
	return nil
}

func showDiff(repo *vcs.Repo, path string, entry registry.Entry) error {
	switch entry.Type {
	case registry.Overlay:
		return showOverlayDiff(repo, path)
	case registry.Phantom:
		return showPhantomDiff(repo, path, entry)
	}
	return nil
}

func showOverlayDiff(repo *vcs.Repo, path string) error {
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(path))
	baseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return shadowerr.ErrBaselineMissing{Path: path}
	}

	worktree, err := os.ReadFile(filepath.Join(repo.Root, path))
	if err != nil {
		return shadowerr.ErrFileMissing{Path: path}
	}

	diffutil.PrintColored(string(baseline), string(worktree), path, path)
	return nil
}

func showPhantomDiff(repo *vcs.Repo, path string, entry registry.Entry) error {
	if entry.IsDirectory {
		ui.Inf(fmt.Sprintf("%s is a phantom directory, nothing to diff", path))
		return nil
	}

	content, err := os.ReadFile(filepath.Join(repo.Root, path))
	if err != nil {
		return shadowerr.ErrFileMissing{Path: path}
	}

	diffutil.PrintNewFile(string(content), path)
	return nil
}
