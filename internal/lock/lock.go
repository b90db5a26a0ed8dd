// Package lock implements the advisory, PID-based lockfile that serializes
// commit transactions against a single shadow metadata directory.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
)

// Info describes the holder of a lockfile.
type Info struct {
	PID       int
	Timestamp time.Time
}

// Status classifies the current state of a shadow directory's lockfile.
type Status int

const (
	Free Status = iota
	HeldByUs
	HeldByOther
	Stale
)

// ErrLockHeld is returned by Acquire when a live other process holds the lock.
type ErrLockHeld struct{ Info Info }

func (e ErrLockHeld) Error() string {
	return fmt.Sprintf("lock held by pid %d since %s", e.Info.PID, e.Info.Timestamp.Format(time.RFC3339))
}

// ErrStaleLock is returned by Acquire when the lockfile refers to a dead process.
type ErrStaleLock struct{ PID int }

func (e ErrStaleLock) Error() string {
	return fmt.Sprintf("stale lock from dead pid %d — run `git-shadow restore` to clear it", e.PID)
}

func path(shadowDir string) string {
	return filepath.Join(shadowDir, "lock")
}

// Check classifies the current lockfile without mutating anything.
func Check(shadowDir string) (Status, *Info, error) {
	content, err := os.ReadFile(path(shadowDir))
	if err != nil {
		if os.IsNotExist(err) {
			return Free, nil, nil
		}
		return Free, nil, fmt.Errorf("reading lockfile: %w", err)
	}

	info, err := parse(string(content))
	if err != nil {
		return Free, nil, fmt.Errorf("parsing lockfile: %w", err)
	}

	if info.PID == os.Getpid() {
		return HeldByUs, info, nil
	}
	if alive(info.PID) {
		return HeldByOther, info, nil
	}
	return Stale, info, nil
}

// Acquire writes the lockfile for the current process. It is reentrant: a
// lock already held by this process succeeds silently.
func Acquire(shadowDir string) error {
	status, info, err := Check(shadowDir)
	if err != nil {
		return err
	}
	switch status {
	case HeldByUs:
		return nil
	case HeldByOther:
		return ErrLockHeld{Info: *info}
	case Stale:
		return ErrStaleLock{PID: info.PID}
	}

	content := fmt.Sprintf("pid=%d\ntimestamp=%s", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	return atomicfile.Write(path(shadowDir), []byte(content), 0o644)
}

// Release removes the lockfile. Absence of a lockfile is not an error.
func Release(shadowDir string) error {
	err := os.Remove(path(shadowDir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lockfile: %w", err)
	}
	return nil
}

func parse(content string) (*Info, error) {
	var pid *int
	var ts *time.Time
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "pid="):
			v, err := strconv.Atoi(strings.TrimPrefix(line, "pid="))
			if err != nil {
				return nil, fmt.Errorf("invalid pid: %w", err)
			}
			pid = &v
		case strings.HasPrefix(line, "timestamp="):
			v, err := time.Parse(time.RFC3339, strings.TrimPrefix(line, "timestamp="))
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp: %w", err)
			}
			ts = &v
		}
	}
	if pid == nil {
		return nil, fmt.Errorf("lockfile missing pid")
	}
	if ts == nil {
		return nil, fmt.Errorf("lockfile missing timestamp")
	}
	return &Info{PID: *pid, Timestamp: *ts}, nil
}
