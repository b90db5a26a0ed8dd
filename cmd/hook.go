package cmd

import (
	"fmt"
	"os"

	"github.com/rnwolfe/git-shadow/internal/eventlog"
	"github.com/rnwolfe/git-shadow/internal/txn"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:    "hook <hook-name>",
	Short:  "Internal entry point called from the installed git hooks",
	Args:   cobra.ExactArgs(1),
	Hidden: true,
	RunE:   runHook,
}

func runHook(_ *cobra.Command, args []string) error {
	name := args[0]

	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	var handlerErr error
	switch name {
	case "pre-commit":
		handlerErr = txn.PreCommit(repo)
	case "post-commit":
		handlerErr = txn.PostCommit(repo)
	case "post-merge":
		handlerErr = txn.PostMerge(repo)
	default:
		return fmt.Errorf("unknown hook name: %s", name)
	}

	recordHookEvent(name, handlerErr)

	return handlerErr
}

// recordHookEvent best-effort appends an outcome to the event log. A
// failure to open or write the log is reported on stderr but never turns a
// hook invocation into a failure on its own.
func recordHookEvent(name string, handlerErr error) {
	db, err := eventlog.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open event log: %v\n", err)
		return
	}
	defer db.Close()

	outcome := eventlog.OK
	detail := ""
	if handlerErr != nil {
		outcome = eventlog.Error
		detail = handlerErr.Error()
	}

	if err := db.Record(name, outcome, detail); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record event: %v\n", err)
	}
}
