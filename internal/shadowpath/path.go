// Package shadowpath encodes repository-relative paths into flat, safe
// filenames for storage under the shadow metadata directory, and normalizes
// user-supplied paths into that repository-relative form.
package shadowpath

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Encode turns a repository-relative path into a flat filename safe for use
// inside baselines/, stash/, and suspended/. The percent escape must run
// before the slash escape: reversing the order would make the encoding
// ambiguous for any path already containing a literal "%2F" substring.
func Encode(p string) string {
	p = strings.ReplaceAll(p, "%", "%25")
	p = strings.ReplaceAll(p, "/", "%2F")
	return p
}

// Decode reverses Encode.
func Decode(name string) string {
	name = strings.ReplaceAll(name, "%2F", "/")
	name = strings.ReplaceAll(name, "%25", "%")
	return name
}

// Normalize converts a user-supplied path (relative to cwd or absolute) into
// a repository-relative, forward-slash path with no "./" prefix and no ".."
// traversal. root is the absolute repository root.
func Normalize(root, input string) (string, error) {
	input = filepath.ToSlash(input)

	var rel string
	if path.IsAbs(input) {
		rootSlash := filepath.ToSlash(root)
		if !strings.HasPrefix(input, rootSlash+"/") && input != rootSlash {
			return "", fmt.Errorf("%s is outside the repository", input)
		}
		rel = strings.TrimPrefix(input, rootSlash)
		rel = strings.TrimPrefix(rel, "/")
	} else {
		rel = input
	}

	rel = path.Clean(rel)
	rel = strings.TrimPrefix(rel, "./")
	if rel == "." {
		return "", fmt.Errorf("empty path")
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s escapes the repository", input)
	}
	return rel, nil
}
