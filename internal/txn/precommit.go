// Package txn implements the commit-transaction state machine: swapping
// shadow-managed paths back to their committable form before `git commit`
// runs, and restoring shadow content once the commit has landed.
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

// journal tracks what PreCommit has done so it can be unwound if a later
// step fails partway through.
type journal struct {
	stashedOverlays []string
	stashedPhantoms []string
	overwritten     []string
}

// rollback best-effort restores every stashed path to the working tree and
// re-stages any overlay whose baseline was written into the index.
func (j *journal) rollback(repo *vcs.Repo) {
	for _, p := range append(append([]string{}, j.stashedOverlays...), j.stashedPhantoms...) {
		stashPath := filepath.Join(repo.ShadowDir, "stash", shadowpath.Encode(p))
		worktreePath := filepath.Join(repo.Root, p)
		if content, err := os.ReadFile(stashPath); err == nil {
			_ = os.WriteFile(worktreePath, content, 0o644)
			_ = os.Remove(stashPath)
		}
	}
	for _, p := range j.overwritten {
		_ = repo.Stage(p)
	}
}

// PreCommit swaps every managed path into its committable form: overlays
// have their shadow content stashed and baseline restored and staged;
// phantoms have their content stashed (if any) and are unstaged. It holds
// the shadow lock on success so PostCommit can release it once the commit
// has actually landed.
func PreCommit(repo *vcs.Repo) error {
	if err := lock.Acquire(repo.ShadowDir); err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		_ = lock.Release(repo.ShadowDir)
		return err
	}

	if reg.Empty() {
		return lock.Release(repo.ShadowDir)
	}

	if err := runHardChecks(repo, reg); err != nil {
		_ = lock.Release(repo.ShadowDir)
		return err
	}
	runSoftChecks(repo, reg)

	if err := detectPartialStaging(repo, reg); err != nil {
		_ = lock.Release(repo.ShadowDir)
		return err
	}

	j := &journal{}
	if err := processFiles(repo, reg, j); err != nil {
		j.rollback(repo)
		_ = lock.Release(repo.ShadowDir)
		return err
	}

	return nil
}

func runHardChecks(repo *vcs.Repo, reg *registry.Registry) error {
	stashDir := filepath.Join(repo.ShadowDir, "stash")
	entries, err := os.ReadDir(stashDir)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				return shadowerr.ErrStashRemaining
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading stash directory: %w", err)
	}

	for _, pe := range reg.Entries() {
		if pe.Entry.Type != registry.Overlay {
			continue
		}
		if _, err := os.Stat(filepath.Join(repo.Root, pe.Path)); err != nil {
			return shadowerr.ErrFileMissing{Path: pe.Path}
		}
		baseline := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(pe.Path))
		if _, err := os.Stat(baseline); err != nil {
			return shadowerr.ErrBaselineMissing{Path: pe.Path}
		}
	}
	return nil
}

func runSoftChecks(repo *vcs.Repo, reg *registry.Registry) {
	head, err := repo.HeadCommit()
	if err != nil {
		return
	}
	for _, pe := range reg.Entries() {
		if pe.Entry.Type != registry.Overlay || pe.Entry.BaselineCommit == "" {
			continue
		}
		if pe.Entry.BaselineCommit != head {
			fmt.Fprintf(os.Stderr, "warning: baseline for %s is outdated. Run `git-shadow rebase %s`\n", pe.Path, pe.Path)
		}
	}
}

func detectPartialStaging(repo *vcs.Repo, reg *registry.Registry) error {
	for _, pe := range reg.Entries() {
		if pe.Entry.Type != registry.Overlay {
			continue
		}
		indexChanged, worktreeChanged, err := repo.StagingStatus(pe.Path)
		if err != nil {
			return err
		}
		if indexChanged && worktreeChanged {
			return shadowerr.ErrPartialStage{Path: pe.Path}
		}
	}
	return nil
}

func processFiles(repo *vcs.Repo, reg *registry.Registry, j *journal) error {
	for _, pe := range reg.Entries() {
		var err error
		switch pe.Entry.Type {
		case registry.Overlay:
			err = processOverlay(repo, pe.Path, j)
		case registry.Phantom:
			err = processPhantom(repo, pe.Path, pe.Entry, j)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func processOverlay(repo *vcs.Repo, path string, j *journal) error {
	encoded := shadowpath.Encode(path)
	worktreePath := filepath.Join(repo.Root, path)
	stashPath := filepath.Join(repo.ShadowDir, "stash", encoded)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)

	content, err := os.ReadFile(worktreePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := atomicfile.Write(stashPath, content, atomicfile.DefaultPerm); err != nil {
		return fmt.Errorf("stashing %s: %w", path, err)
	}
	j.stashedOverlays = append(j.stashedOverlays, path)
	escrowStash(repo.ShadowDir, encoded, content)

	baseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return fmt.Errorf("reading baseline for %s: %w", path, err)
	}
	if err := os.WriteFile(worktreePath, baseline, 0o644); err != nil {
		return fmt.Errorf("restoring baseline for %s: %w", path, err)
	}
	j.overwritten = append(j.overwritten, path)

	if err := repo.Stage(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

func processPhantom(repo *vcs.Repo, path string, entry registry.Entry, j *journal) error {
	if entry.IsDirectory {
		return repo.Unstage(path)
	}

	encoded := shadowpath.Encode(path)
	worktreePath := filepath.Join(repo.Root, path)
	stashPath := filepath.Join(repo.ShadowDir, "stash", encoded)

	if _, err := os.Stat(worktreePath); err == nil {
		content, err := os.ReadFile(worktreePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := atomicfile.Write(stashPath, content, atomicfile.DefaultPerm); err != nil {
			return fmt.Errorf("stashing %s: %w", path, err)
		}
		j.stashedPhantoms = append(j.stashedPhantoms, path)
		escrowStash(repo.ShadowDir, encoded, content)
	}

	return repo.Unstage(path)
}
