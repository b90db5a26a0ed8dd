package diffutil

import (
	"strings"
	"testing"
)

func TestUnifiedNoChange(t *testing.T) {
	result := Unified("hello\n", "hello\n", "a/file", "b/file")
	if !strings.Contains(result, "--- a/file") {
		t.Errorf("got %q, want --- a/file", result)
	}
	if !strings.Contains(result, "+++ b/file") {
		t.Errorf("got %q, want +++ b/file", result)
	}
	if strings.Contains(result, "@@") {
		t.Errorf("got %q, want no hunks for identical content", result)
	}
}

func TestUnifiedAddedLines(t *testing.T) {
	result := Unified("line1\n", "line1\nline2\n", "a/file", "b/file")
	if !strings.Contains(result, "+line2") {
		t.Errorf("got %q, want +line2", result)
	}
	if !strings.Contains(result, "@@") {
		t.Errorf("got %q, want a hunk header", result)
	}
}

func TestUnifiedRemovedLines(t *testing.T) {
	result := Unified("line1\nline2\n", "line1\n", "a/file", "b/file")
	if !strings.Contains(result, "-line2") {
		t.Errorf("got %q, want -line2", result)
	}
}

func TestUnifiedMixed(t *testing.T) {
	result := Unified("old\n", "new\n", "a/file", "b/file")
	if !strings.Contains(result, "-old") {
		t.Errorf("got %q, want -old", result)
	}
	if !strings.Contains(result, "+new") {
		t.Errorf("got %q, want +new", result)
	}
}

func TestUnifiedEmptyToContent(t *testing.T) {
	result := Unified("", "new content\n", "a/file", "b/file")
	if !strings.Contains(result, "+new content") {
		t.Errorf("got %q, want +new content", result)
	}
}
