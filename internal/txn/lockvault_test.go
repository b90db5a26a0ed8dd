package txn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rnwolfe/git-shadow/internal/lockvault"
)

func TestPreCommitEscrowsStashWhenEnabled(t *testing.T) {
	repo := newTestRepo(t)
	setupOverlay(t, repo)

	if err := os.WriteFile(filepath.Join(repo.ShadowDir, "encrypt-stash"), []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(StashPassphraseEnv, "correct horse battery staple")

	if err := PreCommit(repo); err != nil {
		t.Fatal(err)
	}

	v := lockvault.New(repo.ShadowDir, "correct horse battery staple")
	content, err := v.Retrieve("TEAM.md")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if string(content) != "# Team\n# My additions\n" {
		t.Errorf("got %q, want escrowed shadow content", content)
	}
}

func TestPostCommitClearsEscrow(t *testing.T) {
	repo := newTestRepo(t)
	setupOverlay(t, repo)

	if err := os.WriteFile(filepath.Join(repo.ShadowDir, "encrypt-stash"), []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(StashPassphraseEnv, "correct horse battery staple")

	if err := PreCommit(repo); err != nil {
		t.Fatal(err)
	}
	runOK(t, repo.Root, "commit", "-m", "shadow commit")
	if err := PostCommit(repo); err != nil {
		t.Fatal(err)
	}

	v := lockvault.New(repo.ShadowDir, "correct horse battery staple")
	if _, err := v.Retrieve("TEAM.md"); err == nil {
		t.Error("expected escrow entry to be cleared after PostCommit")
	}
}

func TestEscrowStashNoopWithoutMarker(t *testing.T) {
	repo := newTestRepo(t)
	setupOverlay(t, repo)
	t.Setenv(StashPassphraseEnv, "correct horse battery staple")

	if err := PreCommit(repo); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(repo.ShadowDir, "lock.vault")); !os.IsNotExist(err) {
		t.Error("expected no lock vault to be created without the encrypt-stash marker")
	}
}

func TestEscrowStashNoopWithoutPassphrase(t *testing.T) {
	repo := newTestRepo(t)
	setupOverlay(t, repo)

	if err := os.WriteFile(filepath.Join(repo.ShadowDir, "encrypt-stash"), []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := PreCommit(repo); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(repo.ShadowDir, "lock.vault")); !os.IsNotExist(err) {
		t.Error("expected no lock vault to be created without a passphrase")
	}
}
