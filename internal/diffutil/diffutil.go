// Package diffutil renders unified diffs between a baseline and the current
// working tree content of a shadow-managed file.
package diffutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextRadius = 3

type line struct {
	tag  byte // ' ', '+', '-'
	text string
}

// Unified returns a unified diff between old and new, labeled with oldLabel
// and newLabel in the --- / +++ header lines. Identical content produces a
// header with no hunks.
func Unified(old, new, oldLabel, newLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", oldLabel)
	fmt.Fprintf(&b, "+++ %s\n", newLabel)
	writeHunk(&b, old, new)
	return b.String()
}

// PrintColored writes a unified diff to stdout with ANSI coloring: hunk
// headers in cyan/info, additions in green, removals in red.
func PrintColored(old, new, oldLabel, newLabel string) {
	fmt.Println(ui.Error.Render("--- " + oldLabel))
	fmt.Println(ui.Success.Render("+++ " + newLabel))

	var body strings.Builder
	writeHunk(&body, old, new)
	printColoredLines(body.String())
}

// PrintNewFile prints content as an all-additions diff against /dev/null,
// used to show the full body of a newly-tracked phantom file.
func PrintNewFile(content, path string) {
	fmt.Println(ui.Error.Render("--- /dev/null"))
	fmt.Println(ui.Success.Render("+++ " + path))

	contentLines := splitLines(content)
	fmt.Println(ui.Info.Render(fmt.Sprintf("@@ -0,0 +1,%d @@", len(contentLines))))
	for _, l := range contentLines {
		fmt.Println(ui.Success.Render("+" + l))
	}
}

func printColoredLines(body string) {
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return
	}
	for _, l := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(l, "@@"):
			fmt.Println(ui.Info.Render(l))
		case strings.HasPrefix(l, "+"):
			fmt.Println(ui.Success.Render(l))
		case strings.HasPrefix(l, "-"):
			fmt.Println(ui.Error.Render(l))
		default:
			fmt.Println(l)
		}
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Stats counts the added and removed lines between old and new.
func Stats(old, new string) (added, removed int) {
	for _, l := range classify(old, new) {
		switch l.tag {
		case '+':
			added++
		case '-':
			removed++
		}
	}
	return added, removed
}

// classify runs a line-level diff and tags every resulting line.
func classify(old, new string) []line {
	dmp := diffmatchpatch.New()
	oldEnc, newEnc, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(oldEnc, newEnc, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var all []line
	for _, d := range diffs {
		var tag byte
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			tag = '+'
		case diffmatchpatch.DiffDelete:
			tag = '-'
		default:
			tag = ' '
		}
		for _, text := range splitLines(d.Text) {
			all = append(all, line{tag: tag, text: text})
		}
	}
	return all
}

// writeHunk collapses the whole file into a single hunk spanning from the
// first changed line to the last, trimmed to contextRadius lines of
// surrounding context on each side. Nothing is written when there are no
// changes.
func writeHunk(b *strings.Builder, old, new string) {
	all := classify(old, new)

	first, last := -1, -1
	for i, l := range all {
		if l.tag != ' ' {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return
	}

	start := first - contextRadius
	if start < 0 {
		start = 0
	}
	end := last + contextRadius + 1
	if end > len(all) {
		end = len(all)
	}

	oldStart, newStart := 1, 1
	for i := 0; i < start; i++ {
		switch all[i].tag {
		case ' ':
			oldStart++
			newStart++
		case '+':
			newStart++
		case '-':
			oldStart++
		}
	}

	oldCount, newCount := 0, 0
	var body strings.Builder
	for i := start; i < end; i++ {
		switch all[i].tag {
		case ' ':
			oldCount++
			newCount++
			fmt.Fprintf(&body, " %s\n", all[i].text)
		case '+':
			newCount++
			fmt.Fprintf(&body, "+%s\n", all[i].text)
		case '-':
			oldCount++
			fmt.Fprintf(&body, "-%s\n", all[i].text)
		}
	}

	fmt.Fprintf(b, "@@ -%s +%s @@\n", rangeSpec(oldStart, oldCount), rangeSpec(newStart, newCount))
	b.WriteString(body.String())
}

func rangeSpec(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	if count == 0 {
		return strconv.Itoa(start-1) + ",0"
	}
	return fmt.Sprintf("%d,%d", start, count)
}
