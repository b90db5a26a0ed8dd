package cmd

import (
	"fmt"

	"github.com/rnwolfe/git-shadow/internal/doctor"
	"github.com/rnwolfe/git-shadow/internal/eventlog"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	doctorHistory bool
	doctorExplain bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check a repository's shadow setup for problems",
	Long:  `Run a read-only sweep of hook installation, registry integrity, stash remnants, and lock state, and report what's wrong.`,
	RunE:  runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorHistory, "history", false, "show recent hook invocations from the event log")
	doctorCmd.Flags().BoolVar(&doctorExplain, "explain", false, "render remediation hints as markdown")
}

func runDoctor(_ *cobra.Command, _ []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	report := doctor.Run(repo, reg)

	if report.Healthy() {
		ui.Ok("all checks passed")
	} else {
		printDoctorReport(report)
	}

	if doctorHistory {
		printDoctorHistory()
	}

	if !report.Healthy() {
		return fmt.Errorf("one or more checks failed, see above")
	}
	return nil
}

func printDoctorReport(report doctor.Report) {
	if doctorExplain {
		fmt.Print(ui.RenderMarkdown(explainMarkdown(report)))
		return
	}

	if len(report.Issues) > 0 {
		fmt.Println(ui.Error.Render("issues:"))
		for _, issue := range report.Issues {
			fmt.Printf("  %s %s\n", ui.Error.Render(ui.IconError), issue)
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Println(ui.Warning.Render("warnings:"))
		for _, warning := range report.Warnings {
			fmt.Printf("  %s %s\n", ui.Warning.Render(ui.IconWarn), warning)
		}
	}
}

// explainMarkdown builds a remediation-hint document for every issue and
// warning, meant to be rendered with glamour on a TTY.
func explainMarkdown(report doctor.Report) string {
	md := "# git-shadow doctor\n\n"
	if len(report.Issues) > 0 {
		md += "## Issues\n\n"
		for _, issue := range report.Issues {
			md += fmt.Sprintf("- **%s**\n  %s\n", issue, remediationHint(issue))
		}
		md += "\n"
	}
	if len(report.Warnings) > 0 {
		md += "## Warnings\n\n"
		for _, warning := range report.Warnings {
			md += fmt.Sprintf("- %s\n  %s\n", warning, remediationHint(warning))
		}
	}
	return md
}

func remediationHint(message string) string {
	switch {
	case contains(message, "hook does not exist"), contains(message, "hook is not executable"), contains(message, "does not call git-shadow"):
		return "Run `git-shadow install` to (re)install the git hooks."
	case contains(message, "baseline file for"), contains(message, "does not exist in working tree"):
		return "Run `git-shadow status` to inspect the file, then `git-shadow remove` and re-`add` it if the baseline is unrecoverable."
	case contains(message, "stash has remaining files"):
		return "Run `git-shadow restore` to drain the stash back into the working tree."
	case contains(message, "stale lockfile"), contains(message, "held by another process"):
		return "Run `git-shadow restore` to clear the lock once you've confirmed no other git-shadow process is running."
	case contains(message, "competing hook manager"):
		return "Another hook manager owns this repository's hooks; chain git-shadow's hook invocation into it manually."
	default:
		return "See `git-shadow status` for more detail."
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func printDoctorHistory() {
	db, err := eventlog.Open()
	if err != nil {
		ui.Warn(fmt.Sprintf("could not open event log: %v", err))
		return
	}
	defer db.Close()

	entries, err := db.Recent(20)
	if err != nil {
		ui.Warn(fmt.Sprintf("could not read event log: %v", err))
		return
	}

	if len(entries) == 0 {
		ui.Inf("no recorded hook invocations")
		return
	}

	fmt.Println()
	ui.Header("recent hook invocations")
	for _, e := range entries {
		line := fmt.Sprintf("  %s %-12s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Hook, e.Outcome)
		if e.Detail != "" {
			line += " " + ui.Muted.Render("("+e.Detail+")")
		}
		fmt.Println(line)
	}
}
