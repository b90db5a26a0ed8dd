package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rnwolfe/git-shadow/internal/registry"
)

func TestRebaseUpdatesBaselineOnDrift(t *testing.T) {
	dir, repo := newCmdTestRepo(t)
	t.Chdir(dir)
	resetAddFlags()

	if err := runAdd(nil, []string{"CLAUDE.md"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("# Team\nmy shadow note\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runGitOK(t, dir, "git", "checkout", "CLAUDE.md")
	if err := os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("# Team\nupstream change\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGitOK(t, dir, "git", "add", "CLAUDE.md")
	runGitOK(t, dir, "git", "commit", "-m", "upstream")

	if err := os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("# Team\nmy shadow note\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runRebase(nil, nil); err != nil {
		t.Fatal(err)
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		t.Fatal(err)
	}
	entry, _ := reg.Get("CLAUDE.md")
	head, _ := repo.HeadCommit()
	if entry.BaselineCommit != head {
		t.Errorf("baseline commit not updated: got %s, want %s", entry.BaselineCommit, head)
	}
}

func TestRebaseNoManagedFiles(t *testing.T) {
	dir, _ := newCmdTestRepo(t)
	t.Chdir(dir)

	if err := runRebase(nil, nil); err != nil {
		t.Fatal(err)
	}
}

func TestRebaseUnknownTargetFails(t *testing.T) {
	dir, _ := newCmdTestRepo(t)
	t.Chdir(dir)
	resetAddFlags()

	if err := runAdd(nil, []string{"CLAUDE.md"}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGitOK(t, dir, "git", "add", "other.md")
	runGitOK(t, dir, "git", "commit", "-m", "add other")

	if err := runRebase(nil, []string{"other.md"}); err == nil {
		t.Fatal("expected error rebasing a non-overlay path")
	}
}
