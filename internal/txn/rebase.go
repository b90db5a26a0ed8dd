package txn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
	"github.com/rnwolfe/git-shadow/internal/merge"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowerr"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/vcs"
)

// Rebase re-baselines Overlay paths against the current HEAD, 3-way
// merging shadow changes onto whatever upstream changed. With an empty
// target it rebases every Overlay; with a non-empty one it rebases only
// that path, returning ErrFileNotOverlay if it isn't a registered Overlay.
func Rebase(repo *vcs.Repo, reg *registry.Registry, target string) ([]string, error) {
	head, err := repo.HeadCommit()
	if err != nil {
		return nil, err
	}

	var rebased []string
	found := false
	for _, pe := range reg.Entries() {
		if pe.Entry.Type != registry.Overlay {
			continue
		}
		if target != "" && pe.Path != target {
			continue
		}
		found = true

		changed, err := rebaseFile(repo, reg, pe.Path, head)
		if err != nil {
			return rebased, err
		}
		if changed {
			rebased = append(rebased, pe.Path)
		}
	}

	if !found && target != "" {
		return nil, shadowerr.ErrFileNotOverlay{Path: target}
	}

	if err := reg.Save(repo.ShadowDir); err != nil {
		return rebased, err
	}
	return rebased, nil
}

// rebaseFile re-baselines one path, reporting whether the baseline moved.
func rebaseFile(repo *vcs.Repo, reg *registry.Registry, path, newHead string) (bool, error) {
	encoded := shadowpath.Encode(path)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	worktreePath := filepath.Join(repo.Root, path)

	currentContent, err := os.ReadFile(worktreePath)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	oldBaseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return false, fmt.Errorf("reading baseline for %s: %w", path, err)
	}

	newBaseline, err := repo.ShowAt("HEAD", path)
	if err != nil {
		return false, shadowerr.ErrFileDeletedUpstream{Path: path}
	}

	if string(oldBaseline) == string(newBaseline) {
		fmt.Printf("%s: baseline has not changed\n", path)
		return false, nil
	}

	result, err := merge.ThreeWay(oldBaseline, currentContent, newBaseline, repo.ShadowDir)
	if err != nil {
		return false, fmt.Errorf("merging %s: %w", path, err)
	}

	if err := os.WriteFile(worktreePath, result.Content, 0o644); err != nil {
		return false, fmt.Errorf("writing merged content for %s: %w", path, err)
	}
	if err := atomicfile.Write(baselinePath, newBaseline, atomicfile.DefaultPerm); err != nil {
		return false, fmt.Errorf("updating baseline for %s: %w", path, err)
	}
	if err := reg.SetBaselineCommit(path, newHead); err != nil {
		return false, err
	}

	if result.HasConflicts {
		fmt.Fprintf(os.Stderr, "warning: conflicts detected in %s. Please resolve manually\n", path)
	} else {
		fmt.Printf("baseline updated for %s\n", path)
	}
	return true, nil
}
