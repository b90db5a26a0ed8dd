package txn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
	"github.com/rnwolfe/git-shadow/internal/lock"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowerr"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/vcs"
)

// Suspend moves every managed path's shadow content out of the working tree
// into the shadow directory's suspended/ archive, leaving Overlay paths at
// their baseline content and removing non-directory Phantom paths
// entirely, so the tree is clean enough to switch branches.
func Suspend(repo *vcs.Repo, reg *registry.Registry) (int, error) {
	if reg.Suspended {
		return 0, shadowerr.ErrAlreadySuspended
	}

	status, _, err := lock.Check(repo.ShadowDir)
	if err != nil {
		return 0, err
	}
	if status != lock.Free {
		return 0, shadowerr.ErrCommitInProgress
	}

	stashDir := filepath.Join(repo.ShadowDir, "stash")
	if entries, err := os.ReadDir(stashDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				return 0, shadowerr.ErrStashRemaining
			}
		}
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("reading stash directory: %w", err)
	}

	if reg.Empty() {
		return 0, nil
	}

	suspendedDir := filepath.Join(repo.ShadowDir, "suspended")
	if err := os.MkdirAll(suspendedDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating suspended directory: %w", err)
	}

	count := 0
	for _, pe := range reg.Entries() {
		switch pe.Entry.Type {
		case registry.Overlay:
			if err := suspendOverlay(repo, suspendedDir, pe.Path); err != nil {
				return count, err
			}
			count++
		case registry.Phantom:
			if !pe.Entry.IsDirectory {
				if err := suspendPhantom(repo, suspendedDir, pe.Path); err != nil {
					return count, err
				}
				count++
			}
		}
	}

	reg.Suspended = true
	if err := reg.Save(repo.ShadowDir); err != nil {
		return count, err
	}
	return count, nil
}

func suspendOverlay(repo *vcs.Repo, suspendedDir, path string) error {
	encoded := shadowpath.Encode(path)
	worktreePath := filepath.Join(repo.Root, path)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	suspendPath := filepath.Join(suspendedDir, encoded)

	content, err := os.ReadFile(worktreePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := atomicfile.Write(suspendPath, content, atomicfile.DefaultPerm); err != nil {
		return fmt.Errorf("saving suspended content for %s: %w", path, err)
	}

	baseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return fmt.Errorf("reading baseline for %s: %w", path, err)
	}
	if err := os.WriteFile(worktreePath, baseline, 0o644); err != nil {
		return fmt.Errorf("restoring baseline for %s: %w", path, err)
	}
	return nil
}

func suspendPhantom(repo *vcs.Repo, suspendedDir, path string) error {
	worktreePath := filepath.Join(repo.Root, path)
	if _, err := os.Stat(worktreePath); os.IsNotExist(err) {
		return nil
	}

	encoded := shadowpath.Encode(path)
	suspendPath := filepath.Join(suspendedDir, encoded)

	content, err := os.ReadFile(worktreePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := atomicfile.Write(suspendPath, content, atomicfile.DefaultPerm); err != nil {
		return fmt.Errorf("saving suspended content for %s: %w", path, err)
	}
	if err := os.Remove(worktreePath); err != nil {
		return fmt.Errorf("removing %s from working tree: %w", path, err)
	}
	return nil
}
