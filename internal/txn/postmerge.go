package txn

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnwolfe/git-shadow/internal/config"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/vcs"
)

// PostMerge reacts to any Overlay whose registered baseline no longer
// matches the new HEAD's content. The configured RemoteConfig.Policy
// controls the reaction: warn (the default) prints a warning and leaves
// rebasing to the user, auto-rebase re-baselines the drifted overlay in
// place, and silent skips the check entirely. It never fails the merge.
func PostMerge(repo *vcs.Repo) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	policy := cfg.Remote.Policy()
	if policy == config.RemotePolicySilent {
		return nil
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}
	head, err := repo.HeadCommit()
	if err != nil {
		return err
	}

	var drifted []string
	for _, pe := range reg.Entries() {
		if pe.Entry.Type != registry.Overlay || pe.Entry.BaselineCommit == "" {
			continue
		}
		if pe.Entry.BaselineCommit == head {
			continue
		}

		baselinePath := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(pe.Path))
		baselineContent, err := os.ReadFile(baselinePath)
		if err != nil {
			continue
		}
		headContent, err := repo.ShowAt("HEAD", pe.Path)
		if err != nil {
			continue
		}
		if !bytes.Equal(baselineContent, headContent) {
			drifted = append(drifted, pe.Path)
		}
	}

	if len(drifted) == 0 {
		return nil
	}

	if policy == config.RemotePolicyAutoRebase {
		for _, path := range drifted {
			if _, err := Rebase(repo, reg, path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: auto-rebase failed for %s: %v\n", path, err)
			}
		}
		return nil
	}

	for _, path := range drifted {
		fmt.Fprintf(os.Stderr, "warning: baseline for %s is outdated.\n  Run `git-shadow rebase %s`\n", path, path)
	}
	return nil
}
