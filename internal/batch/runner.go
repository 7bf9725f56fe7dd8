package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/maauso/video-segmenter/internal/manifest"
	"github.com/maauso/video-segmenter/internal/media"
	"github.com/maauso/video-segmenter/internal/storage"
)

// Store is the view of the manifest store the runner needs. The runner only
// reads entries and requests deletions; persistence stays with the store.
type Store interface {
	Entries() []manifest.Entry
	Remove(filename string) (bool, error)
}

// Options holds the per-run settings for a Runner. All paths are explicit;
// the runner never consults the working directory.
type Options struct {
	// InputDir is where source videos live.
	InputDir string
	// SplitDir is the root for segment output.
	SplitDir string
	// FolderPerSplit places each entry's segments in its own subdirectory
	// named after directory_name, falling back to base_name.
	FolderPerSplit bool
	// SegmentMinutes is the segment length passed to the invoker.
	SegmentMinutes int
}

// Summary is the terminal tally of one run.
type Summary struct {
	// RunID identifies the run in logs.
	RunID string
	// Processed counts entries that were segmented successfully.
	Processed int
	// Failed counts entries that failed and were left untouched.
	Failed int
	// Items records the final state of every entry the run reached.
	Items []Item
}

// Runner drives one batch run over the manifest.
type Runner struct {
	store     Store
	segmenter media.Segmenter
	archiver  storage.Archiver
	opts      Options
	logger    *slog.Logger
}

// NewRunner creates a batch runner with its collaborators injected.
// A nil logger falls back to slog.Default().
func NewRunner(store Store, segmenter media.Segmenter, archiver storage.Archiver, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:     store,
		segmenter: segmenter,
		archiver:  archiver,
		opts:      opts,
		logger:    logger,
	}
}

// Run processes every manifest entry sequentially, in manifest order. Each
// entry is carried to completion before the next begins. Per-item failures
// (missing source, tool failure) are counted and the run continues; an entry
// with an empty base_name aborts the whole run with
// ErrConfigurationIncomplete after earlier successes have already been
// persisted. The returned summary is valid even when an error is returned.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	logger := r.logger.With(slog.String("run_id", summary.RunID))

	entries := r.store.Entries()
	if len(entries) == 0 {
		logger.Info("no videos in manifest, nothing to do")
		return summary, nil
	}

	logger.Info("starting batch run",
		slog.Int("entries", len(entries)),
		slog.Int("segment_minutes", r.opts.SegmentMinutes),
		slog.Bool("folder_per_split", r.opts.FolderPerSplit),
	)

	for _, entry := range entries {
		item := Item{Entry: entry, Status: StatusPending}
		_ = item.transitionTo(StatusValidating)

		srcPath := filepath.Join(r.opts.InputDir, entry.Filename)
		if _, err := os.Stat(srcPath); err != nil {
			item.fail(fmt.Errorf("%w: %s", ErrSourceMissing, srcPath))
			summary.Failed++
			summary.Items = append(summary.Items, item)
			logger.Warn("source video not found, skipping",
				slog.String("filename", entry.Filename),
				slog.String("path", srcPath),
			)
			continue
		}

		if entry.BaseName == "" {
			err := fmt.Errorf("%w: %s", ErrConfigurationIncomplete, entry.Filename)
			item.fail(err)
			summary.Items = append(summary.Items, item)
			logger.Error("manifest entry is not configured, aborting run",
				slog.String("filename", entry.Filename),
			)
			return summary, err
		}

		outputDir := r.outputDir(entry)
		_ = item.transitionTo(StatusSegmenting)
		logger.Info("splitting video",
			slog.String("filename", entry.Filename),
			slog.String("output_dir", outputDir),
		)

		if err := r.segmenter.Segment(ctx, srcPath, outputDir, entry.BaseName, r.opts.SegmentMinutes); err != nil {
			item.fail(err)
			summary.Failed++
			summary.Items = append(summary.Items, item)
			logger.Error("segmentation failed",
				slog.String("filename", entry.Filename),
				slog.String("error", err.Error()),
			)
			continue
		}

		_ = item.transitionTo(StatusRelocating)
		if err := r.archiver.Archive(ctx, srcPath, entry.Filename); err != nil {
			// The item is already split; a stuck source file is an
			// operator cleanup task, not a processing failure.
			logger.Warn("could not move source to completed",
				slog.String("filename", entry.Filename),
				slog.String("error", err.Error()),
			)
		}

		_ = item.transitionTo(StatusReconciling)
		removed, err := r.store.Remove(entry.Filename)
		if err != nil {
			logger.Error("could not persist manifest after removal",
				slog.String("filename", entry.Filename),
				slog.String("error", err.Error()),
			)
		} else if !removed {
			logger.Warn("entry already absent from manifest",
				slog.String("filename", entry.Filename),
			)
		}

		_ = item.transitionTo(StatusDone)
		summary.Processed++
		summary.Items = append(summary.Items, item)
		logger.Info("video processed",
			slog.String("filename", entry.Filename),
		)
	}

	logger.Info("batch run complete",
		slog.Int("processed", summary.Processed),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// outputDir resolves where an entry's segments go. In folder-per-split mode
// each entry gets its own subdirectory named directory_name, falling back to
// base_name; otherwise all entries share the split root.
func (r *Runner) outputDir(entry manifest.Entry) string {
	if !r.opts.FolderPerSplit {
		return r.opts.SplitDir
	}
	if entry.DirectoryName != "" {
		return filepath.Join(r.opts.SplitDir, entry.DirectoryName)
	}
	return filepath.Join(r.opts.SplitDir, entry.BaseName)
}
