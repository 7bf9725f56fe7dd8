// Package manifest provides the durable record of pending segmentation work.
// The manifest is a human-edited JSON file mapping source filenames to output
// naming; this package owns loading it, backing it up, and persisting every
// mutation immediately.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Static errors for manifest operations.
var (
	// ErrNotFound is returned when the manifest file does not exist.
	ErrNotFound = errors.New("manifest: file not found")
)

// BackupSuffix is appended to the manifest path to form the backup path.
const BackupSuffix = ".bak"

// Entry is one manifest record for one source file.
// BaseName and DirectoryName are filled in by the operator after discovery;
// missing keys in the JSON document unmarshal to empty strings.
type Entry struct {
	// Filename identifies the source file inside the input directory.
	Filename string `json:"filename"`
	// BaseName is the naming stem for output segments. Empty means the
	// operator has not configured this entry yet.
	BaseName string `json:"base_name"`
	// DirectoryName is an optional output subfolder name. Empty falls back
	// to BaseName when folder-per-split mode is enabled.
	DirectoryName string `json:"directory_name"`
}

// Store owns the in-memory manifest and its persistence. Callers read
// entries and request removals; the store writes the file, never the caller.
type Store struct {
	path    string
	entries []Entry
}

// Load reads the manifest at path and writes an unconditional backup copy
// of the raw file content to a sibling path before returning. Returns
// ErrNotFound when the file is absent.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path) // #nosec G304 - path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	// Point-in-time safety snapshot, overwritten on every load.
	if err := os.WriteFile(BackupPath(path), raw, 0600); err != nil {
		return nil, fmt.Errorf("manifest: write backup: %w", err)
	}

	return &Store{path: path, entries: entries}, nil
}

// BackupPath returns the sibling path the backup copy is written to.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Entries returns a copy of the ordered entry sequence.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries currently in the manifest.
func (s *Store) Len() int {
	return len(s.entries)
}

// Remove deletes every entry matching filename. If at least one entry was
// removed, the full manifest is persisted to its original path before
// returning. When nothing matches, the file is left untouched and Remove
// reports false.
func (s *Store) Remove(filename string) (bool, error) {
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.Filename != filename {
			kept = append(kept, e)
		}
	}

	if len(kept) == len(s.entries) {
		return false, nil
	}

	s.entries = kept
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// save serializes the manifest and replaces the original file atomically
// (write to a temp file in the same directory, then rename over the target)
// so a partial write never corrupts the prior content.
func (s *Store) save() error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp_*")
	if err != nil {
		return fmt.Errorf("manifest: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("manifest: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("manifest: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("manifest: replace %s: %w", s.path, err)
	}
	return nil
}
