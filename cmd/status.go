package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/diffutil"
	"github.com/rnwolfe/git-shadow/internal/lock"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every managed path and its current state",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	printStatusWarnings(repo)

	if reg.Suspended {
		ui.Warn("shadow changes are suspended, run `git-shadow resume` to restore them")
	}

	if reg.Empty() {
		ui.Inf("no files are managed, run `git-shadow add <path>` to register one")
		return nil
	}

	head, _ := repo.HeadCommit()

	for _, pe := range reg.Entries() {
		switch pe.Entry.Type {
		case registry.Overlay:
			printOverlayStatus(repo, pe.Path, pe.Entry, head)
		case registry.Phantom:
			printPhantomStatus(repo, pe.Path, pe.Entry)
		}
	}

	return nil
}

func printStatusWarnings(repo *vcs.Repo) {
	stashDir := filepath.Join(repo.ShadowDir, "stash")
	if entries, err := os.ReadDir(stashDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				ui.Warn("stash has remaining files, run `git-shadow restore`")
				break
			}
		}
	}

	status, info, err := lock.Check(repo.ShadowDir)
	if err == nil && status == lock.Stale {
		ui.Warn(fmt.Sprintf("stale lock from dead pid %d, run `git-shadow restore` to clear it", info.PID))
	}
	if err == nil && status == lock.HeldByOther {
		ui.Warn(fmt.Sprintf("commit in progress (pid %d), some files may be stashed", info.PID))
	}
}

func printOverlayStatus(repo *vcs.Repo, path string, entry registry.Entry, head string) {
	shortCommit := entry.BaselineCommit
	if len(shortCommit) > 7 {
		shortCommit = shortCommit[:7]
	}

	line := fmt.Sprintf("%s %s %s", ui.IconOverlay, path, ui.Muted.Render("(overlay, baseline "+shortCommit+")"))

	baselinePath := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(path))
	baseline, baselineErr := os.ReadFile(baselinePath)
	worktree, worktreeErr := os.ReadFile(filepath.Join(repo.Root, path))

	switch {
	case baselineErr == nil && worktreeErr == nil:
		added, removed := diffutil.Stats(string(baseline), string(worktree))
		if added > 0 || removed > 0 {
			line += " " + ui.Muted.Render(fmt.Sprintf("+%d -%d", added, removed))
		}
	case worktreeErr != nil:
		line += " " + ui.Error.Render("(missing from working tree)")
	}

	fmt.Println(line)

	if entry.BaselineCommit != "" && head != "" && entry.BaselineCommit != head {
		ui.Warn(fmt.Sprintf("  baseline for %s is outdated, run `git-shadow rebase %s`", path, path))
	}
}

func printPhantomStatus(repo *vcs.Repo, path string, entry registry.Entry) {
	line := fmt.Sprintf("%s %s %s", ui.IconPhantom, path, ui.Muted.Render("(phantom)"))

	if !entry.IsDirectory {
		if info, err := os.Stat(filepath.Join(repo.Root, path)); err == nil {
			line += " " + ui.Muted.Render(formatSize(info.Size()))
		} else {
			line += " " + ui.Error.Render("(missing)")
		}
	}

	fmt.Println(line)
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
