// Package discovery lists candidate source videos and seeds the manifest.
package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maauso/video-segmenter/internal/manifest"
)

// ErrNoVideos is returned when a scan finds no recognized video files.
// Callers must not create a manifest in that case.
var ErrNoVideos = errors.New("discovery: no video files found")

// Recognized video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mkv":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
}

// Scan lists regular files directly inside dir (no recursion) whose
// extension matches the recognized video set, case-insensitively. Symlinks
// are followed, so a link to a video file elsewhere counts. The result is
// sorted by name for deterministic processing order.
func Scan(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discovery: read %s: %w", dir, err)
	}

	var files []string
	for _, de := range dirEntries {
		info, err := os.Stat(filepath.Join(dir, de.Name()))
		if err != nil || !info.Mode().IsRegular() {
			// Broken links and non-files are skipped.
			continue
		}
		ext := strings.ToLower(filepath.Ext(de.Name()))
		if videoExtensions[ext] {
			files = append(files, de.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// BuildManifest maps discovered filenames to manifest entries with empty
// naming fields, ready for the operator to edit. Returns ErrNoVideos when
// files is empty.
func BuildManifest(files []string) ([]manifest.Entry, error) {
	if len(files) == 0 {
		return nil, ErrNoVideos
	}

	entries := make([]manifest.Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, manifest.Entry{Filename: f})
	}
	return entries, nil
}

// WriteManifest scans dir and writes a fresh manifest to path. No file is
// written when the scan finds nothing; ErrNoVideos is returned instead.
// It returns the number of files recorded.
func WriteManifest(dir, path string) (int, error) {
	files, err := Scan(dir)
	if err != nil {
		return 0, err
	}

	entries, err := BuildManifest(files)
	if err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("discovery: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return 0, fmt.Errorf("discovery: write manifest: %w", err)
	}
	return len(entries), nil
}
