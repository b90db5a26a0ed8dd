package merge

import (
	"bytes"
	"testing"
)

func TestCleanMerge(t *testing.T) {
	base := []byte("line1\nline2\nline3\n")
	ours := []byte("line1\nline2 modified\nline3\n")
	theirs := []byte("line1\nline2\nline3\nline4\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if result.HasConflicts {
		t.Error("expected a clean merge")
	}
	if !bytes.Contains(result.Content, []byte("line2 modified")) || !bytes.Contains(result.Content, []byte("line4")) {
		t.Errorf("unexpected merge content: %q", result.Content)
	}
}

func TestConflictMerge(t *testing.T) {
	base := []byte("line1\n")
	ours := []byte("ours change\n")
	theirs := []byte("theirs change\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasConflicts {
		t.Error("expected a conflicting merge")
	}
	if !bytes.Contains(result.Content, []byte("<<<<<<<")) || !bytes.Contains(result.Content, []byte(">>>>>>>")) {
		t.Errorf("expected conflict markers, got %q", result.Content)
	}
}

func TestNoChanges(t *testing.T) {
	content := []byte("unchanged\n")
	result, err := ThreeWay(content, content, content, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if result.HasConflicts {
		t.Error("expected a clean merge")
	}
	if !bytes.Equal(result.Content, content) {
		t.Errorf("got %q, want %q", result.Content, content)
	}
}

func TestOnlyOursChanged(t *testing.T) {
	base := []byte("original\n")
	ours := []byte("original\nour addition\n")
	theirs := []byte("original\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if result.HasConflicts {
		t.Error("expected a clean merge")
	}
	if !bytes.Contains(result.Content, []byte("our addition")) {
		t.Errorf("unexpected merge content: %q", result.Content)
	}
}

func TestOnlyTheirsChanged(t *testing.T) {
	base := []byte("original\n")
	ours := []byte("original\n")
	theirs := []byte("original\ntheir addition\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if result.HasConflicts {
		t.Error("expected a clean merge")
	}
	if !bytes.Contains(result.Content, []byte("their addition")) {
		t.Errorf("unexpected merge content: %q", result.Content)
	}
}
