// Package fileintegrity holds the admission checks applied when a file is
// registered as an Overlay: it must not look binary, and it must not exceed
// the size ceiling unless the caller opts to override it.
package fileintegrity

import (
	"io"
	"os"

	"github.com/rnwolfe/git-shadow/internal/shadowerr"
)

// SizeLimit is the default ceiling for overlay file size, in bytes.
const SizeLimit = 1_048_576 // 1 MiB

const binaryCheckBytes = 8192

// IsBinary reports whether path appears to be binary, by checking for a
// null byte in its first 8 KiB.
func IsBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, binaryCheckBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true, nil
		}
	}
	return false, nil
}

// CheckSize returns shadowerr.ErrFileTooLarge if path exceeds SizeLimit and
// force is false.
func CheckSize(path string, force bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > SizeLimit && !force {
		return shadowerr.ErrFileTooLarge{Path: path, Size: info.Size(), MaxBytes: SizeLimit}
	}
	return nil
}
