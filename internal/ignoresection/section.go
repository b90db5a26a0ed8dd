// Package ignoresection maintains a fenced, idempotently-managed block of
// entries inside a repository's .git/info/exclude file, leaving everything
// else in that file untouched.
package ignoresection

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
)

const (
	sectionStart = "# >>> git-shadow managed (DO NOT EDIT) >>>"
	sectionEnd   = "# <<< git-shadow managed <<<"
)

// Manager edits the managed section of one repository's exclude file.
type Manager struct {
	path string
}

// New returns a Manager for gitDir's info/exclude file.
func New(gitDir string) *Manager {
	return &Manager{path: filepath.Join(gitDir, "info", "exclude")}
}

// AddEntry adds entryPath to the managed section if not already present.
func (m *Manager) AddEntry(entryPath string) error {
	content, err := m.read()
	if err != nil {
		return err
	}
	entries := parseSection(content)
	for _, e := range entries {
		if e == entryPath {
			return nil
		}
	}
	entries = append(entries, entryPath)
	return m.write(content, entries)
}

// RemoveEntry removes entryPath from the managed section, if present.
func (m *Manager) RemoveEntry(entryPath string) error {
	content, err := m.read()
	if err != nil {
		return err
	}
	entries := parseSection(content)
	kept := entries[:0]
	for _, e := range entries {
		if e != entryPath {
			kept = append(kept, e)
		}
	}
	return m.write(content, kept)
}

// ListEntries returns every entry currently in the managed section.
func (m *Manager) ListEntries() ([]string, error) {
	content, err := m.read()
	if err != nil {
		return nil, err
	}
	return parseSection(content), nil
}

func (m *Manager) read() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (m *Manager) write(original string, entries []string) error {
	return atomicfile.Write(m.path, []byte(rebuild(original, entries)), atomicfile.DefaultPerm)
}

func parseSection(content string) []string {
	var entries []string
	inSection := false
	for _, line := range strings.Split(content, "\n") {
		switch line {
		case sectionStart:
			inSection = true
			continue
		case sectionEnd:
			inSection = false
			continue
		}
		if inSection {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
				entries = append(entries, trimmed)
			}
		}
	}
	return entries
}

// rebuild preserves everything outside the managed section and replaces the
// section itself, omitting it entirely when entries is empty so an unused
// repository's exclude file never carries an orphan fence.
func rebuild(original string, entries []string) string {
	var before, after []string
	inSection, pastSection := false, false

	for _, line := range strings.Split(original, "\n") {
		switch {
		case line == sectionStart:
			inSection = true
			continue
		case line == sectionEnd:
			inSection = false
			pastSection = true
			continue
		case inSection:
			continue
		case pastSection:
			after = append(after, line)
		default:
			before = append(before, line)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(before, "\n"))

	if len(entries) == 0 {
		if len(after) > 0 {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(strings.Join(after, "\n"))
		}
		out := b.String()
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return out
	}

	if b.Len() > 0 {
		s := b.String()
		if !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(sectionStart)
	b.WriteByte('\n')
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	b.WriteString(sectionEnd)
	b.WriteByte('\n')

	if len(after) > 0 {
		b.WriteString(strings.Join(after, "\n"))
		s := b.String()
		if !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
