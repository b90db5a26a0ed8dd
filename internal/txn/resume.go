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

// Resume is the inverse of Suspend: it restores every managed path's
// content from the suspended/ archive, 3-way merging Overlay paths whose
// baseline has drifted since they were suspended, and clears the suspended
// flag once the archive has been fully drained.
func Resume(repo *vcs.Repo, reg *registry.Registry) (int, error) {
	if !reg.Suspended {
		return 0, shadowerr.ErrNotSuspended
	}

	suspendedDir := filepath.Join(repo.ShadowDir, "suspended")
	head, err := repo.HeadCommit()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, pe := range reg.Entries() {
		switch pe.Entry.Type {
		case registry.Overlay:
			if err := resumeOverlay(repo, reg, suspendedDir, pe.Path, head); err != nil {
				return count, err
			}
			count++
		case registry.Phantom:
			if !pe.Entry.IsDirectory {
				if err := resumePhantom(repo, suspendedDir, pe.Path); err != nil {
					return count, err
				}
				count++
			}
		}
	}

	if _, err := os.Stat(suspendedDir); err == nil {
		if err := os.RemoveAll(suspendedDir); err != nil {
			return count, fmt.Errorf("cleaning up suspended directory: %w", err)
		}
	}

	reg.Suspended = false
	if err := reg.Save(repo.ShadowDir); err != nil {
		return count, err
	}
	return count, nil
}

func resumeOverlay(repo *vcs.Repo, reg *registry.Registry, suspendedDir, path, newHead string) error {
	encoded := shadowpath.Encode(path)
	suspendPath := filepath.Join(suspendedDir, encoded)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	worktreePath := filepath.Join(repo.Root, path)

	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", path, err)
	}

	suspendedContent, err := os.ReadFile(suspendPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: no suspended content for %s\n", path)
			return nil
		}
		return fmt.Errorf("reading suspended content for %s: %w", path, err)
	}

	oldBaseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return fmt.Errorf("reading baseline for %s: %w", path, err)
	}

	newBaseline, err := repo.ShowAt("HEAD", path)
	if err != nil {
		if err := os.WriteFile(worktreePath, suspendedContent, 0o644); err != nil {
			return fmt.Errorf("restoring %s: %w", path, err)
		}
		fmt.Printf("%s: shadow changes restored (file absent from HEAD)\n", path)
		return nil
	}

	if string(oldBaseline) == string(newBaseline) {
		if err := os.WriteFile(worktreePath, suspendedContent, 0o644); err != nil {
			return fmt.Errorf("restoring %s: %w", path, err)
		}
		fmt.Printf("%s: shadow changes restored\n", path)
		return nil
	}

	result, err := merge.ThreeWay(oldBaseline, suspendedContent, newBaseline, repo.ShadowDir)
	if err != nil {
		return fmt.Errorf("merging %s: %w", path, err)
	}
	if err := os.WriteFile(worktreePath, result.Content, 0o644); err != nil {
		return fmt.Errorf("writing merged content for %s: %w", path, err)
	}
	if err := atomicfile.Write(baselinePath, newBaseline, atomicfile.DefaultPerm); err != nil {
		return fmt.Errorf("updating baseline for %s: %w", path, err)
	}
	if err := reg.SetBaselineCommit(path, newHead); err != nil {
		return err
	}

	if result.HasConflicts {
		fmt.Fprintf(os.Stderr, "warning: conflicts detected in %s. Please resolve manually\n", path)
	} else {
		fmt.Printf("%s: baseline updated and shadow changes merged\n", path)
	}
	return nil
}

func resumePhantom(repo *vcs.Repo, suspendedDir, path string) error {
	encoded := shadowpath.Encode(path)
	suspendPath := filepath.Join(suspendedDir, encoded)
	worktreePath := filepath.Join(repo.Root, path)

	content, err := os.ReadFile(suspendPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: no suspended content for %s\n", path)
			return nil
		}
		return fmt.Errorf("reading suspended content for %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", path, err)
	}
	if err := os.WriteFile(worktreePath, content, 0o644); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	fmt.Printf("%s: phantom file restored\n", path)
	return nil
}
