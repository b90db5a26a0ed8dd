package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnwolfe/git-shadow/internal/txn"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var installEncryptStash bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Set up git hooks for shadow management",
	Long:  `Write the pre-commit, post-commit, and post-merge hook scripts that drive the shadow commit transaction, chaining to any pre-existing hook of the same name.`,
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installEncryptStash, "encrypt-stash", false,
		fmt.Sprintf("escrow stash content in an age-encrypted lock vault, passphrase read from $%s", txn.StashPassphraseEnv))
}

var hookNames = []string{"pre-commit", "post-commit", "post-merge"}

const hookMarker = "git-shadow hook"

func hookScript(name string) string {
	return fmt.Sprintf(`#!/bin/sh
# git-shadow managed hook
git-shadow hook %s
SHADOW_EXIT=$?
if [ $SHADOW_EXIT -ne 0 ]; then
  exit $SHADOW_EXIT
fi

if [ -x .git/hooks/%s.pre-shadow ]; then
  .git/hooks/%s.pre-shadow "$@"
fi
`, name, name, name)
}

func runInstall(_ *cobra.Command, _ []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(repo.ShadowDir, "baselines"), 0o755); err != nil {
		return fmt.Errorf("creating baselines directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(repo.ShadowDir, "stash"), 0o755); err != nil {
		return fmt.Errorf("creating stash directory: %w", err)
	}

	hooksDir := filepath.Join(repo.GitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}

	for _, name := range hookNames {
		if err := installHook(hooksDir, name); err != nil {
			return err
		}
	}

	if installEncryptStash {
		if os.Getenv(txn.StashPassphraseEnv) == "" {
			return fmt.Errorf("--encrypt-stash requires $%s to be set", txn.StashPassphraseEnv)
		}
		if err := os.WriteFile(filepath.Join(repo.ShadowDir, "encrypt-stash"), []byte("1\n"), 0o644); err != nil {
			return fmt.Errorf("enabling stash encryption: %w", err)
		}
	}

	ui.Ok("git-shadow hooks installed")
	return nil
}

func installHook(hooksDir, name string) error {
	hookPath := filepath.Join(hooksDir, name)

	if content, err := os.ReadFile(hookPath); err == nil {
		if strings.Contains(string(content), hookMarker) {
			return nil
		}
		backup := filepath.Join(hooksDir, name+".pre-shadow")
		if err := os.Rename(hookPath, backup); err != nil {
			return fmt.Errorf("backing up existing %s hook: %w", name, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading existing %s hook: %w", name, err)
	}

	if err := os.WriteFile(hookPath, []byte(hookScript(name)), 0o755); err != nil {
		return fmt.Errorf("writing %s hook: %w", name, err)
	}
	return os.Chmod(hookPath, 0o755)
}
