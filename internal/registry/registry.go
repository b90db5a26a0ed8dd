// Package registry persists the mapping of shadow-managed paths to their
// entries as a JSON document under the shadow metadata directory.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
)

// Mode discriminates the two kinds of managed path.
type Mode string

const (
	Overlay Mode = "overlay"
	Phantom Mode = "phantom"
)

// ExcludeMode records whether a path's ignore-file entry is managed.
type ExcludeMode string

const (
	GitInfoExclude ExcludeMode = "git_info_exclude"
	NoExclude      ExcludeMode = "none"
)

// Entry is one managed path's registration.
type Entry struct {
	Type           Mode        `json:"type"`
	BaselineCommit string      `json:"baseline_commit,omitempty"`
	ExcludeMode    ExcludeMode `json:"exclude_mode"`
	IsDirectory    bool        `json:"is_directory,omitempty"`
	AddedAt        time.Time   `json:"added_at"`
}

// document is the on-disk shape of the registry, kept separate from
// Registry so encoding/json only ever sees known fields.
type document struct {
	Version   int              `json:"version"`
	Suspended bool             `json:"suspended"`
	Files     map[string]Entry `json:"files"`
}

// ErrAlreadyManaged is returned when registering a path already present.
var ErrAlreadyManaged = errors.New("already managed")

// ErrNotManaged is returned when operating on a path that isn't registered.
var ErrNotManaged = errors.New("not managed")

// Registry is the in-memory, mutable form of the registry document.
type Registry struct {
	Version   int
	Suspended bool
	files     map[string]Entry
}

// New returns an empty registry at schema version 1.
func New() *Registry {
	return &Registry{Version: 1, files: map[string]Entry{}}
}

func configPath(shadowDir string) string {
	return filepath.Join(shadowDir, "config.json")
}

// Load reads the registry document from shadowDir, returning an empty
// registry if none exists yet.
func Load(shadowDir string) (*Registry, error) {
	data, err := os.ReadFile(configPath(shadowDir))
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if doc.Files == nil {
		doc.Files = map[string]Entry{}
	}
	return &Registry{Version: doc.Version, Suspended: doc.Suspended, files: doc.Files}, nil
}

// Save writes the registry document atomically, with object keys sorted for
// deterministic diffs (Go maps don't preserve insertion order, so the sort
// is explicit rather than implicit as it would be with a Rust BTreeMap).
func (r *Registry) Save(shadowDir string) error {
	doc := document{Version: r.Version, Suspended: r.Suspended, Files: r.files}
	data, err := marshalSorted(doc)
	if err != nil {
		return fmt.Errorf("serializing registry: %w", err)
	}
	return atomicfile.Write(configPath(shadowDir), data, atomicfile.DefaultPerm)
}

// marshalSorted renders the document with "files" keys in lexicographic
// order by marshaling into a json.RawMessage-keyed ordered buffer.
func marshalSorted(doc document) ([]byte, error) {
	keys := make([]string, 0, len(doc.Files))
	for k := range doc.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type rawDoc struct {
		Version   int             `json:"version"`
		Suspended bool            `json:"suspended"`
		Files     json.RawMessage `json:"files"`
	}

	var buf []byte
	buf = append(buf, '{')
	for i, k := range keys {
		entryJSON, err := json.Marshal(doc.Files[k])
		if err != nil {
			return nil, err
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, entryJSON...)
	}
	buf = append(buf, '}')

	return json.MarshalIndent(rawDoc{Version: doc.Version, Suspended: doc.Suspended, Files: buf}, "", "  ")
}

// AddOverlay registers path as an Overlay baselined at commit.
func (r *Registry) AddOverlay(path, commit string) error {
	if _, exists := r.files[path]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyManaged, path)
	}
	r.files[path] = Entry{
		Type:           Overlay,
		BaselineCommit: commit,
		ExcludeMode:    NoExclude,
		AddedAt:        time.Now().UTC(),
	}
	return nil
}

// AddPhantom registers path as a Phantom.
func (r *Registry) AddPhantom(path string, exclude ExcludeMode, isDirectory bool) error {
	if _, exists := r.files[path]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyManaged, path)
	}
	r.files[path] = Entry{
		Type:        Phantom,
		ExcludeMode: exclude,
		IsDirectory: isDirectory,
		AddedAt:     time.Now().UTC(),
	}
	return nil
}

// Remove unregisters path, returning its prior entry.
func (r *Registry) Remove(path string) (Entry, error) {
	entry, exists := r.files[path]
	if !exists {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotManaged, path)
	}
	delete(r.files, path)
	return entry, nil
}

// Get returns the entry for path, if registered.
func (r *Registry) Get(path string) (Entry, bool) {
	e, ok := r.files[path]
	return e, ok
}

// SetBaselineCommit updates an Overlay entry's baseline_ref, used after a
// successful rebase or resume merge.
func (r *Registry) SetBaselineCommit(path, commit string) error {
	e, exists := r.files[path]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotManaged, path)
	}
	e.BaselineCommit = commit
	r.files[path] = e
	return nil
}

// Empty reports whether the registry has no managed paths.
func (r *Registry) Empty() bool {
	return len(r.files) == 0
}

// SortedPaths returns every managed path, lexicographically sorted, so
// iteration order is deterministic.
func (r *Registry) SortedPaths() []string {
	paths := make([]string, 0, len(r.files))
	for p := range r.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Entries returns every (path, Entry) pair in sorted path order.
func (r *Registry) Entries() []struct {
	Path  string
	Entry Entry
} {
	out := make([]struct {
		Path  string
		Entry Entry
	}, 0, len(r.files))
	for _, p := range r.SortedPaths() {
		out = append(out, struct {
			Path  string
			Entry Entry
		}{Path: p, Entry: r.files[p]})
	}
	return out
}
