package txn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/lock"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/vcs"
)

// RestoreResult summarizes a Restore call for the CLI to print.
type RestoreResult struct {
	RestoredPaths []string
	LockRemoved   bool
}

// Restore is the crash-recovery escape hatch: it drains the stash
// directory back into the working tree (optionally scoped to a single
// path) and clears any lockfile, regardless of which process holds it.
// It is meant to be run manually after a crashed commit transaction, once
// the operator has confirmed no other git-shadow process is actually
// running.
func Restore(repo *vcs.Repo, onlyPath string) (RestoreResult, error) {
	var result RestoreResult

	stashDir := filepath.Join(repo.ShadowDir, "stash")
	entries, err := os.ReadDir(stashDir)
	if err != nil && !os.IsNotExist(err) {
		return result, fmt.Errorf("reading stash directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		encoded := e.Name()
		normalized := shadowpath.Decode(encoded)

		if onlyPath != "" && normalized != onlyPath {
			continue
		}

		worktreePath := filepath.Join(repo.Root, normalized)
		stashPath := filepath.Join(stashDir, encoded)

		if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
			return result, fmt.Errorf("creating parent directory for %s: %w", normalized, err)
		}
		content, err := os.ReadFile(stashPath)
		if err != nil {
			return result, fmt.Errorf("reading stash for %s: %w", normalized, err)
		}
		if err := os.WriteFile(worktreePath, content, 0o644); err != nil {
			return result, fmt.Errorf("restoring %s: %w", normalized, err)
		}
		if err := os.Remove(stashPath); err != nil {
			return result, fmt.Errorf("clearing stash for %s: %w", normalized, err)
		}
		clearStashEscrow(repo.ShadowDir, encoded)
		result.RestoredPaths = append(result.RestoredPaths, normalized)
	}

	if _, err := os.Stat(filepath.Join(repo.ShadowDir, "lock")); err == nil {
		if err := lock.Release(repo.ShadowDir); err != nil {
			return result, err
		}
		result.LockRemoved = true
	}

	return result, nil
}
