package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
	"github.com/rnwolfe/git-shadow/internal/fileintegrity"
	"github.com/rnwolfe/git-shadow/internal/ignoresection"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowerr"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	addPhantom   bool
	addNoExclude bool
	addForce     bool
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a file for shadow management",
	Long:  `Register path as an Overlay (a tracked file with hidden local edits) or, with --phantom, as a local-only file Git never sees.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addPhantom, "phantom", false, "register as a local-only file instead of an overlay")
	addCmd.Flags().BoolVar(&addNoExclude, "no-exclude", false, "skip adding the phantom to .git/info/exclude")
	addCmd.Flags().BoolVar(&addForce, "force", false, "ignore the overlay size limit")
}

func runAdd(_ *cobra.Command, args []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	normalized, err := shadowpath.Normalize(repo.Root, args[0])
	if err != nil {
		return err
	}

	if !repo.HooksInstalled() {
		ui.Warn("hooks are not installed, run `git-shadow install`")
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	if addPhantom {
		err = addPhantomPath(repo, reg, normalized)
	} else {
		err = addOverlayPath(repo, reg, normalized)
	}
	if err != nil {
		return err
	}

	return reg.Save(repo.ShadowDir)
}

func addOverlayPath(repo *vcs.Repo, reg *registry.Registry, normalized string) error {
	tracked, err := repo.IsTracked(normalized)
	if err != nil {
		return err
	}
	if !tracked {
		return shadowerr.ErrFileNotTracked{Path: normalized}
	}

	worktreePath := filepath.Join(repo.Root, normalized)

	binary, err := fileintegrity.IsBinary(worktreePath)
	if err != nil {
		return fmt.Errorf("checking %s: %w", normalized, err)
	}
	if binary {
		return shadowerr.ErrBinaryFile{Path: normalized}
	}

	if err := fileintegrity.CheckSize(worktreePath, addForce); err != nil {
		return err
	}

	commit, err := repo.HeadCommit()
	if err != nil {
		return err
	}
	baselineContent, err := repo.ShowAt("HEAD", normalized)
	if err != nil {
		return err
	}

	baselinePath := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(normalized))
	if err := atomicfile.Write(baselinePath, baselineContent, atomicfile.DefaultPerm); err != nil {
		return fmt.Errorf("saving baseline: %w", err)
	}

	if err := reg.AddOverlay(normalized, commit); err != nil {
		return err
	}

	shortCommit := commit
	if len(shortCommit) > 7 {
		shortCommit = shortCommit[:7]
	}
	ui.Ok(fmt.Sprintf("%s registered as an overlay (baseline: %s)", normalized, shortCommit))
	return nil
}

func addPhantomPath(repo *vcs.Repo, reg *registry.Registry, normalized string) error {
	tracked, err := repo.IsTracked(normalized)
	if err != nil {
		return err
	}
	if tracked {
		return shadowerr.ErrAlreadyTracked{Path: normalized}
	}

	info, statErr := os.Stat(filepath.Join(repo.Root, normalized))
	isDirectory := statErr == nil && info.IsDir()

	excludeMode := registry.NoExclude
	if !addNoExclude {
		entryPath := normalized
		if isDirectory {
			entryPath += "/"
		}
		manager := ignoresection.New(repo.GitDir)
		if err := manager.AddEntry(entryPath); err != nil {
			return fmt.Errorf("adding to .git/info/exclude: %w", err)
		}
		excludeMode = registry.GitInfoExclude
	}

	if err := reg.AddPhantom(normalized, excludeMode, isDirectory); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%s registered as a phantom", normalized))
	return nil
}
