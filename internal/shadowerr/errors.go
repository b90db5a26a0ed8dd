// Package shadowerr collects the typed error values surfaced by commit
// transactions, so callers can distinguish failure modes with errors.As
// instead of string matching.
package shadowerr

import "fmt"

// ErrNotInitialized is returned when a command needs the shadow metadata
// directory and it hasn't been installed yet.
var ErrNotInitialized = fmt.Errorf("shadow directory not initialized, run `git-shadow install`")

// ErrHooksNotInstalled is returned when a command needs the git hooks wired
// up and they aren't.
var ErrHooksNotInstalled = fmt.Errorf("hooks not installed, run `git-shadow install`")

// ErrFileNotTracked reports that a path isn't known to the git index.
type ErrFileNotTracked struct{ Path string }

func (e ErrFileNotTracked) Error() string {
	return fmt.Sprintf("file %q is not tracked by git", e.Path)
}

// ErrBinaryFile reports that a path's content looks binary.
type ErrBinaryFile struct{ Path string }

func (e ErrBinaryFile) Error() string {
	return fmt.Sprintf("file %q is a binary file", e.Path)
}

// ErrFileTooLarge reports a path exceeding the managed-size ceiling.
type ErrFileTooLarge struct {
	Path     string
	Size     int64
	MaxBytes int64
}

func (e ErrFileTooLarge) Error() string {
	return fmt.Sprintf("file %q exceeds size limit (%d bytes > %d bytes), use --force to override", e.Path, e.Size, e.MaxBytes)
}

// ErrStashRemaining reports stash files left over from a crashed transaction.
var ErrStashRemaining = fmt.Errorf("stash has remaining files, run `git-shadow restore`")

// ErrPartialStage reports a managed path with independently staged and
// unstaged changes, which a commit transaction cannot safely reconcile.
type ErrPartialStage struct{ Path string }

func (e ErrPartialStage) Error() string {
	return fmt.Sprintf("partial staging detected for %q, run `git add %s` to stage the entire file before committing", e.Path, e.Path)
}

// ErrBaselineMissing reports a managed overlay with no recorded baseline.
type ErrBaselineMissing struct{ Path string }

func (e ErrBaselineMissing) Error() string {
	return fmt.Sprintf("baseline missing for file %q", e.Path)
}

// ErrFileMissing reports a managed overlay absent from the working tree.
type ErrFileMissing struct{ Path string }

func (e ErrFileMissing) Error() string {
	return fmt.Sprintf("file %q does not exist in the working tree", e.Path)
}

// ErrAlreadySuspended is returned by Suspend when the registry is already
// in the suspended state.
var ErrAlreadySuspended = fmt.Errorf("shadow changes are already suspended")

// ErrNotSuspended is returned by Resume when the registry isn't suspended.
var ErrNotSuspended = fmt.Errorf("shadow changes are not suspended")

// ErrCommitInProgress is returned by Suspend when the shadow lock is held.
var ErrCommitInProgress = fmt.Errorf("cannot suspend while a commit is in progress")

// ErrFileNotOverlay is returned by Rebase when a requested path isn't
// registered as an Overlay.
type ErrFileNotOverlay struct{ Path string }

func (e ErrFileNotOverlay) Error() string {
	return fmt.Sprintf("%q is not managed as an overlay", e.Path)
}

// ErrFileDeletedUpstream is returned by Rebase when HEAD no longer has the
// overlay's path.
type ErrFileDeletedUpstream struct{ Path string }

func (e ErrFileDeletedUpstream) Error() string {
	return fmt.Sprintf("%q does not exist in HEAD, the file may have been deleted", e.Path)
}

// ErrNonInteractiveWithoutForce is returned by Remove when stdin isn't a
// terminal and --force wasn't passed, so no confirmation prompt can be shown.
var ErrNonInteractiveWithoutForce = fmt.Errorf("--force is required in non-interactive mode")

// ErrNotManagedByShadow reports that a path has no registry entry.
type ErrNotManagedByShadow struct{ Path string }

func (e ErrNotManagedByShadow) Error() string {
	return fmt.Sprintf("%q is not managed by git-shadow", e.Path)
}

// ErrAlreadyTracked reports that a candidate phantom path is already known
// to the git index.
type ErrAlreadyTracked struct{ Path string }

func (e ErrAlreadyTracked) Error() string {
	return fmt.Sprintf("file %q is already tracked by git, remove --phantom to register it as an overlay", e.Path)
}
