package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeManifest writes raw manifest content to a temp file and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video_titles.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const sampleManifest = `[
  {
    "filename": "lecture01.mp4",
    "base_name": "lecture_week1",
    "directory_name": "week1"
  },
  {
    "filename": "lecture02.mkv",
    "base_name": "",
    "directory_name": ""
  }
]`

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_ParsesEntriesInOrder(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	store, err := Load(path)
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "lecture01.mp4", entries[0].Filename)
	assert.Equal(t, "lecture_week1", entries[0].BaseName)
	assert.Equal(t, "week1", entries[0].DirectoryName)
	assert.Equal(t, "lecture02.mkv", entries[1].Filename)
	assert.Empty(t, entries[1].BaseName)
}

func TestLoad_ToleratesMissingKeys(t *testing.T) {
	path := writeManifest(t, `[{"filename": "clip.mov"}]`)

	store, err := Load(path)
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "clip.mov", entries[0].Filename)
	assert.Empty(t, entries[0].BaseName)
	assert.Empty(t, entries[0].DirectoryName)
}

func TestLoad_WritesBackupOfOriginalContent(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	_, err := Load(path)
	require.NoError(t, err)

	backup, err := os.ReadFile(BackupPath(path))
	require.NoError(t, err, "backup must exist after load")
	assert.Equal(t, sampleManifest, string(backup), "backup must be byte-identical to pre-load content")
}

func TestLoad_BackupOverwrittenOnEachLoad(t *testing.T) {
	path := writeManifest(t, `[{"filename": "old.mp4", "base_name": "old", "directory_name": ""}]`)
	_, err := Load(path)
	require.NoError(t, err)

	updated := `[{"filename": "new.mp4", "base_name": "new", "directory_name": ""}]`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0600))

	_, err = Load(path)
	require.NoError(t, err)

	backup, err := os.ReadFile(BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, updated, string(backup))
}

func TestRemove_NoMatchLeavesFileUntouched(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	store, err := Load(path)
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	removed, err := store.Remove("does-not-exist.mp4")
	require.NoError(t, err)
	assert.False(t, removed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "no spurious rewrite on a miss")
}

func TestRemove_PersistsImmediately(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	store, err := Load(path)
	require.NoError(t, err)

	removed, err := store.Remove("lecture01.mp4")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, store.Len())

	// A fresh parse of the on-disk file must reflect the removal.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []Entry
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 1)
	assert.Equal(t, "lecture02.mkv", onDisk[0].Filename)
}

func TestRemove_AllMatchingEntries(t *testing.T) {
	path := writeManifest(t, `[
  {"filename": "dup.mp4", "base_name": "a", "directory_name": ""},
  {"filename": "keep.mp4", "base_name": "b", "directory_name": ""},
  {"filename": "dup.mp4", "base_name": "c", "directory_name": ""}
]`)
	store, err := Load(path)
	require.NoError(t, err)

	removed, err := store.Remove("dup.mp4")
	require.NoError(t, err)
	assert.True(t, removed)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.mp4", entries[0].Filename)
}

func TestRemove_LastEntryPersistsEmptyArray(t *testing.T) {
	path := writeManifest(t, `[{"filename": "only.mp4", "base_name": "x", "directory_name": ""}]`)
	store, err := Load(path)
	require.NoError(t, err)

	removed, err := store.Remove("only.mp4")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, store.Len())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []Entry
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Empty(t, onDisk)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	store, err := Load(path)
	require.NoError(t, err)

	entries := store.Entries()
	entries[0].Filename = "mutated.mp4"

	assert.Equal(t, "lecture01.mp4", store.Entries()[0].Filename)
}
