// Package vcs is a narrow façade over the host git binary. It shells out via
// os/exec rather than linking go-git or libgit2, following the convention
// set by the host tool's own git-facing packages.
package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotARepo is returned by Discover when the start directory is not
// inside a git working tree.
var ErrNotARepo = errors.New("not a git repository")

// ErrNotInRef is returned by ShowAt when the path does not exist at ref.
var ErrNotInRef = errors.New("path does not exist at ref")

// Repo is a discovered git repository, scoped to the shadow tool's needs.
type Repo struct {
	Root      string // absolute working tree root
	GitDir    string // absolute .git directory
	ShadowDir string // GitDir/shadow
}

// Discover finds the repository containing start and returns its root,
// .git directory, and the shadow metadata directory nested under it.
func Discover(start string) (*Repo, error) {
	out, err := runGitIn(start, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotARepo
	}
	root := strings.TrimSpace(out)

	gitDirOut, err := runGitIn(start, "rev-parse", "--git-dir")
	if err != nil {
		return nil, ErrNotARepo
	}
	gitDir := strings.TrimSpace(gitDirOut)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}

	return &Repo{
		Root:      root,
		GitDir:    gitDir,
		ShadowDir: filepath.Join(gitDir, "shadow"),
	}, nil
}

// HeadCommit returns the full HEAD commit hash.
func (r *Repo) HeadCommit() (string, error) {
	out, err := r.run("rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ShowAt returns the content of path as it exists at ref.
func (r *Repo) ShowAt(ref, path string) ([]byte, error) {
	spec := ref + ":" + path
	cmd := exec.Command("git", "show", spec)
	cmd.Dir = r.Root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInRef, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// IsTracked reports whether path is known to the git index.
func (r *Repo) IsTracked(path string) (bool, error) {
	cmd := exec.Command("git", "ls-files", "--error-unmatch", path)
	cmd.Dir = r.Root
	err := cmd.Run()
	return err == nil, nil
}

// StagingStatus reports (indexDiffersFromHead, worktreeDiffersFromIndex) for
// path, parsed from `git status --porcelain=v2`'s XY columns. A path absent
// from the status output is clean: (false, false).
func (r *Repo) StagingStatus(path string) (indexChanged, worktreeChanged bool, err error) {
	out, err := r.run("status", "--porcelain=v2", "--", path)
	if err != nil {
		return false, false, fmt.Errorf("git status: %w", err)
	}

	for _, line := range strings.Split(out, "\n") {
		if line == "" || (line[0] != '1' && line[0] != '2') {
			continue
		}
		parts := strings.SplitN(line, " ", 9)
		if len(parts) < 2 {
			continue
		}
		xy := parts[1]
		x, y := byte('.'), byte('.')
		if len(xy) > 0 {
			x = xy[0]
		}
		if len(xy) > 1 {
			y = xy[1]
		}
		return x != '.', y != '.', nil
	}
	return false, false, nil
}

// Stage runs `git add` for path.
func (r *Repo) Stage(path string) error {
	_, err := r.run("add", path)
	if err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

// ErrUnstageFailure is returned by Unstage when every strategy fails.
var ErrUnstageFailure = errors.New("could not unstage path")

// Unstage removes path from the index without touching the worktree,
// trying several git invocations in order since the right one depends on
// whether the path has any history and on the git version in PATH.
func (r *Repo) Unstage(path string) error {
	if _, err := r.run("rm", "--cached", "--ignore-unmatch", path); err == nil {
		return nil
	}
	if _, err := r.run("restore", "--staged", path); err == nil {
		return nil
	}
	if _, err := r.run("reset", "--", path); err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnstageFailure, path)
}

// HooksInstalled reports whether all three shadow hook scripts are present
// and carry the tool's marker string.
func (r *Repo) HooksInstalled() bool {
	for _, name := range []string{"pre-commit", "post-commit", "post-merge"} {
		content, err := os.ReadFile(filepath.Join(r.GitDir, "hooks", name))
		if err != nil || !strings.Contains(string(content), "git-shadow hook") {
			return false
		}
	}
	return true
}

// run executes a git command rooted at the repository and returns stdout.
func (r *Repo) run(args ...string) (string, error) {
	return runGitIn(r.Root, args...)
}

// runGitIn runs a git command in dir and returns stdout, wrapping stderr
// into the error on failure.
func runGitIn(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}
