package txn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/lock"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/vcs"
)

// PostCommit restores every stashed path back into the working tree now
// that the commit holding their baseline form has landed, then releases the
// shadow lock. A restore failure for one path is reported but doesn't stop
// the others; the lock is retained whenever any path failed, so `restore`
// can pick up the remainder.
func PostCommit(repo *vcs.Repo) error {
	stashDir := filepath.Join(repo.ShadowDir, "stash")
	entries, err := os.ReadDir(stashDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading stash directory: %w", err)
	}

	files := make([]os.DirEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e)
		}
	}
	if len(files) == 0 {
		return lock.Release(repo.ShadowDir)
	}

	var failed []string
	for _, e := range files {
		encoded := e.Name()
		normalized := shadowpath.Decode(encoded)
		worktreePath := filepath.Join(repo.Root, normalized)
		stashPath := filepath.Join(stashDir, encoded)

		content, err := os.ReadFile(stashPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to read stash for %s: %v\n", normalized, err)
			failed = append(failed, normalized)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to restore %s: %v\n", normalized, err)
			failed = append(failed, normalized)
			continue
		}
		if err := os.WriteFile(worktreePath, content, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to restore %s: %v\n", normalized, err)
			failed = append(failed, normalized)
			continue
		}
		_ = os.Remove(stashPath)
		clearStashEscrow(repo.ShadowDir, encoded)
	}

	if len(failed) > 0 {
		fmt.Fprintln(os.Stderr, "warning: some files failed to restore, run `git-shadow restore`")
		for _, f := range failed {
			fmt.Fprintf(os.Stderr, "  - %s\n", f)
		}
		return nil
	}

	return lock.Release(repo.ShadowDir)
}
