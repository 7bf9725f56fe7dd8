package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/video-segmenter/internal/batch"
	"github.com/maauso/video-segmenter/internal/config"
	"github.com/maauso/video-segmenter/internal/manifest"
)

// fakeSegmenter satisfies media.Segmenter without launching anything.
type fakeSegmenter struct {
	segmented []string
	err       error
}

func (s *fakeSegmenter) CheckAvailable(_ context.Context) error { return nil }

func (s *fakeSegmenter) Segment(_ context.Context, sourcePath, outputDir, baseName string, _ int) error {
	if s.err != nil {
		return s.err
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return err
	}
	s.segmented = append(s.segmented, filepath.Base(sourcePath))
	return os.WriteFile(filepath.Join(outputDir, baseName+"_000.mp4"), []byte("segment"), 0600)
}

// newTestApp builds an app over temp directories with a fake segmenter and
// captured output.
func newTestApp(t *testing.T) (*app, *bytes.Buffer, *fakeSegmenter) {
	t.Helper()
	workDir := t.TempDir()
	cfg := &config.Config{
		InputDir:       t.TempDir(),
		SplitDir:       filepath.Join(workDir, "split"),
		CompletedDir:   filepath.Join(workDir, "completed"),
		ManifestFile:   "video_titles.json",
		SegmentMinutes: 15,
		FFmpegPath:     "ffmpeg",
		LogFormat:      "text",
		LogLevel:       "info",
		WorkDir:        workDir,
	}

	out := &bytes.Buffer{}
	seg := &fakeSegmenter{}
	a := &app{
		cfg:       cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		segmenter: seg,
		stdin:     strings.NewReader(""),
		stdout:    out,
	}
	return a, out, seg
}

func touchVideo(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("video"), 0600))
}

func writeEntries(t *testing.T, path string, entries []manifest.Entry) {
	t.Helper()
	data, err := json.MarshalIndent(entries, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestScanCommand(t *testing.T) {
	t.Run("writes manifest for discovered videos", func(t *testing.T) {
		a, out, _ := newTestApp(t)
		touchVideo(t, a.cfg.InputDir, "b.mp4")
		touchVideo(t, a.cfg.InputDir, "A.MKV")
		touchVideo(t, a.cfg.InputDir, "note.txt")

		require.NoError(t, execute(t, a, "scan"))

		raw, err := os.ReadFile(a.cfg.ManifestPath())
		require.NoError(t, err)
		var entries []manifest.Entry
		require.NoError(t, json.Unmarshal(raw, &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "A.MKV", entries[0].Filename)
		assert.Equal(t, "b.mp4", entries[1].Filename)

		assert.Contains(t, out.String(), "Found 2 video file(s)")
		assert.Contains(t, out.String(), "Please edit video_titles.json")
	})

	t.Run("empty input dir writes nothing and succeeds", func(t *testing.T) {
		a, out, _ := newTestApp(t)

		require.NoError(t, execute(t, a, "scan"))

		_, statErr := os.Stat(a.cfg.ManifestPath())
		assert.True(t, os.IsNotExist(statErr))
		assert.Contains(t, out.String(), "No video files found")
	})
}

func TestSplitCommand(t *testing.T) {
	t.Run("missing manifest surfaces guidance", func(t *testing.T) {
		a, out, _ := newTestApp(t)

		err := execute(t, a, "split")
		require.Error(t, err)
		assert.ErrorIs(t, err, manifest.ErrNotFound)
		assert.Contains(t, out.String(), "Please run 'scan' first")
	})

	t.Run("processes configured entries end to end", func(t *testing.T) {
		a, out, seg := newTestApp(t)
		touchVideo(t, a.cfg.InputDir, "talk.mp4")
		writeEntries(t, a.cfg.ManifestPath(), []manifest.Entry{
			{Filename: "talk.mp4", BaseName: "talk_part"},
		})

		require.NoError(t, execute(t, a, "split"))

		assert.Equal(t, []string{"talk.mp4"}, seg.segmented)

		// Source relocated to the completed directory.
		_, statErr := os.Stat(filepath.Join(a.cfg.InputDir, "talk.mp4"))
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(filepath.Join(a.cfg.CompletedDir, "talk.mp4"))
		assert.NoError(t, statErr)

		// Manifest emptied and backup present.
		store, err := manifest.Load(a.cfg.ManifestPath())
		require.NoError(t, err)
		assert.Equal(t, 0, store.Len())
		_, statErr = os.Stat(manifest.BackupPath(a.cfg.ManifestPath()))
		assert.NoError(t, statErr)

		assert.Contains(t, out.String(), "Successfully processed: 1")
		assert.Contains(t, out.String(), "Failed: 0")
	})

	t.Run("unconfigured entry aborts with guidance", func(t *testing.T) {
		a, out, _ := newTestApp(t)
		touchVideo(t, a.cfg.InputDir, "raw.mp4")
		writeEntries(t, a.cfg.ManifestPath(), []manifest.Entry{
			{Filename: "raw.mp4", BaseName: ""},
		})

		err := execute(t, a, "split")
		require.Error(t, err)
		assert.ErrorIs(t, err, batch.ErrConfigurationIncomplete)
		assert.Contains(t, out.String(), "fill in the 'base_name' field")
	})
}

func TestRootCommand_FlagOverrides(t *testing.T) {
	a, _, _ := newTestApp(t)
	inputDir := a.cfg.InputDir

	require.NoError(t, execute(t, a,
		"scan",
		"--input-dir", inputDir,
		"--segment-length", "30",
		"--folder-per-split",
		"--titles-file", "other_titles.json",
	))

	assert.Equal(t, 30, a.cfg.SegmentMinutes)
	assert.True(t, a.cfg.FolderPerSplit)
	assert.Equal(t, "other_titles.json", a.cfg.ManifestFile)
}

func TestMenu(t *testing.T) {
	t.Run("invalid option reprompts until exit", func(t *testing.T) {
		a, out, _ := newTestApp(t)
		a.stdin = strings.NewReader("9\n3\n")

		require.NoError(t, execute(t, a))
		assert.Contains(t, out.String(), "Invalid option. Please select 1, 2, or 3.")
		assert.Contains(t, out.String(), "Exiting...")
	})

	t.Run("missing manifest returns to menu", func(t *testing.T) {
		a, out, _ := newTestApp(t)
		a.stdin = strings.NewReader("2\n3\n")

		require.NoError(t, execute(t, a), "manifest-not-found must not kill the menu")
		assert.Contains(t, out.String(), "Please run option 1 first")
	})

	t.Run("scan then split through the menu", func(t *testing.T) {
		a, out, seg := newTestApp(t)
		touchVideo(t, a.cfg.InputDir, "clip.mp4")
		a.stdin = strings.NewReader("1\n3\n")

		require.NoError(t, execute(t, a))
		assert.Contains(t, out.String(), "Found 1 video file(s)")

		// Configure the generated manifest, then split via a fresh menu pass.
		writeEntries(t, a.cfg.ManifestPath(), []manifest.Entry{
			{Filename: "clip.mp4", BaseName: "clip"},
		})
		a.stdin = strings.NewReader("2\n3\n")
		out.Reset()

		require.NoError(t, execute(t, a))
		assert.Equal(t, []string{"clip.mp4"}, seg.segmented)
		assert.Contains(t, out.String(), "Successfully processed: 1")
	})

	t.Run("unconfigured manifest is fatal mid-menu", func(t *testing.T) {
		a, _, _ := newTestApp(t)
		touchVideo(t, a.cfg.InputDir, "raw.mp4")
		writeEntries(t, a.cfg.ManifestPath(), []manifest.Entry{
			{Filename: "raw.mp4", BaseName: ""},
		})
		a.stdin = strings.NewReader("2\n3\n")

		err := execute(t, a)
		require.Error(t, err)
		assert.ErrorIs(t, err, batch.ErrConfigurationIncomplete)
	})
}
