package fileintegrity

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rnwolfe/git-shadow/internal/shadowerr"
)

func TestIsBinaryTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("Hello, world!\nLine 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	binary, err := IsBinary(path)
	if err != nil {
		t.Fatal(err)
	}
	if binary {
		t.Error("expected text file to not be classified as binary")
	}
}

func TestIsBinaryWithNullBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.bin")
	content := append([]byte("Hello"), 0x00)
	content = append(content, []byte("world")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	binary, err := IsBinary(path)
	if err != nil {
		t.Fatal(err)
	}
	if !binary {
		t.Error("expected null-byte content to be classified as binary")
	}
}

func TestIsBinaryEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}
	binary, err := IsBinary(path)
	if err != nil {
		t.Fatal(err)
	}
	if binary {
		t.Error("expected empty file to not be classified as binary")
	}
}

func TestCheckSizeUnderLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.txt")
	if err := os.WriteFile(path, []byte("small content"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckSize(path, false); err != nil {
		t.Fatal(err)
	}
}

func TestCheckSizeOverLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.bin")
	content := bytes.Repeat([]byte{0x41}, SizeLimit+1)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	err := CheckSize(path, false)
	var tooLarge shadowerr.ErrFileTooLarge
	if !errors.As(err, &tooLarge) {
		t.Fatalf("got %v, want ErrFileTooLarge", err)
	}
}

func TestCheckSizeOverLimitWithForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.bin")
	content := bytes.Repeat([]byte{0x41}, SizeLimit+1)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckSize(path, true); err != nil {
		t.Fatal(err)
	}
}
