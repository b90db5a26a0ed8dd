// Package doctor runs a suite of health checks against a shadow-managed
// repository and reports issues and warnings for the CLI to print.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnwolfe/git-shadow/internal/lock"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/vcs"
)

var hookNames = []string{"pre-commit", "post-commit", "post-merge"}

var competingHookMarkers = []string{".husky", ".pre-commit-config.yaml", "lefthook.yml"}

// Report is the outcome of a full health check pass.
type Report struct {
	Issues   []string
	Warnings []string
}

// Healthy reports whether the run found no issues or warnings.
func (r Report) Healthy() bool {
	return len(r.Issues) == 0 && len(r.Warnings) == 0
}

// Run performs every check against repo and reg and aggregates the result.
func Run(repo *vcs.Repo, reg *registry.Registry) Report {
	var r Report
	checkHooks(repo, &r)
	checkCompetingHooks(repo, &r)
	checkRegistryIntegrity(repo, reg, &r)
	checkStash(repo, &r)
	checkLock(repo, &r)
	return r
}

func checkHooks(repo *vcs.Repo, r *Report) {
	for _, name := range hookNames {
		hookPath := filepath.Join(repo.GitDir, "hooks", name)

		info, err := os.Stat(hookPath)
		if err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("%s hook does not exist", name))
			continue
		}

		if info.Mode()&0o111 == 0 {
			r.Issues = append(r.Issues, fmt.Sprintf("%s hook is not executable", name))
		}

		content, err := os.ReadFile(hookPath)
		if err == nil && !containsMarker(string(content)) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s hook does not call git-shadow", name))
		}
	}
}

func containsMarker(content string) bool {
	return strings.Contains(content, "git-shadow hook") || strings.Contains(content, "git shadow hook")
}

func checkCompetingHooks(repo *vcs.Repo, r *Report) {
	for _, marker := range competingHookMarkers {
		if _, err := os.Stat(filepath.Join(repo.Root, marker)); err == nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("competing hook manager detected: %s", marker))
		}
	}
}

func checkRegistryIntegrity(repo *vcs.Repo, reg *registry.Registry, r *Report) {
	for _, pe := range reg.Entries() {
		worktreePath := filepath.Join(repo.Root, pe.Path)

		switch pe.Entry.Type {
		case registry.Overlay:
			if _, err := os.Stat(worktreePath); err != nil {
				r.Issues = append(r.Issues, fmt.Sprintf("%s does not exist in working tree", pe.Path))
			}
			baselinePath := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(pe.Path))
			if _, err := os.Stat(baselinePath); err != nil {
				r.Issues = append(r.Issues, fmt.Sprintf("baseline file for %s does not exist", pe.Path))
			}
		case registry.Phantom:
			info, err := os.Stat(worktreePath)
			if pe.Entry.IsDirectory {
				if err != nil || !info.IsDir() {
					r.Issues = append(r.Issues, fmt.Sprintf("%s (phantom dir) does not exist in working tree", pe.Path))
				}
			} else if err != nil {
				r.Issues = append(r.Issues, fmt.Sprintf("%s (phantom) does not exist in working tree", pe.Path))
			}
		}
	}
}

func checkStash(repo *vcs.Repo, r *Report) {
	entries, err := os.ReadDir(filepath.Join(repo.ShadowDir, "stash"))
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			r.Warnings = append(r.Warnings, "stash has remaining files, run `git-shadow restore`")
			return
		}
	}
}

func checkLock(repo *vcs.Repo, r *Report) {
	status, info, err := lock.Check(repo.ShadowDir)
	if err != nil {
		return
	}
	switch status {
	case lock.Stale:
		r.Warnings = append(r.Warnings, fmt.Sprintf("stale lockfile detected (PID %d), run `git-shadow restore`", info.PID))
	case lock.HeldByOther:
		r.Warnings = append(r.Warnings, fmt.Sprintf("lockfile is held by another process (PID %d)", info.PID))
	}
}
