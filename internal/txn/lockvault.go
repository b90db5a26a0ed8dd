package txn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/lockvault"
)

// StashPassphraseEnv names the environment variable git-shadow reads the
// lock vault passphrase from. Hooks run non-interactively, so the
// passphrase can't be prompted for at stash time; it must already be
// exported by the time `git commit` runs.
const StashPassphraseEnv = "GIT_SHADOW_STASH_PASSPHRASE"

func encryptStashEnabled(shadowDir string) bool {
	_, err := os.Stat(filepath.Join(shadowDir, "encrypt-stash"))
	return err == nil
}

// escrowStash mirrors a just-written stash entry into the encrypted lock
// vault, if encryption is enabled for this repository and a passphrase is
// available. It is best-effort and never fails the caller: the vault is
// purely additive to the plaintext stash that actually governs crash
// recovery.
func escrowStash(shadowDir, encodedPath string, content []byte) {
	if !encryptStashEnabled(shadowDir) {
		return
	}
	passphrase := os.Getenv(StashPassphraseEnv)
	if passphrase == "" {
		return
	}
	v := lockvault.New(shadowDir, passphrase)
	if err := v.Escrow(encodedPath, content); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to escrow %s in lock vault: %v\n", encodedPath, err)
	}
}

// clearStashEscrow removes encodedPath's entry from the lock vault once its
// plaintext stash copy has been restored to the working tree.
func clearStashEscrow(shadowDir, encodedPath string) {
	if !encryptStashEnabled(shadowDir) {
		return
	}
	passphrase := os.Getenv(StashPassphraseEnv)
	if passphrase == "" {
		return
	}
	v := lockvault.New(shadowDir, passphrase)
	if err := v.Clear(encodedPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to clear %s from lock vault: %v\n", encodedPath, err)
	}
}
