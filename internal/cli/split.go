package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/maauso/video-segmenter/internal/batch"
	"github.com/maauso/video-segmenter/internal/manifest"
	"github.com/maauso/video-segmenter/internal/storage"
)

func newSplitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Split the videos listed in the titles manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.runSplit(cmd.Context())
			if errors.Is(err, manifest.ErrNotFound) {
				fmt.Fprintf(a.stdout, "Titles file not found: %s\n", a.cfg.ManifestPath())
				fmt.Fprintln(a.stdout, "Please run 'scan' first to generate the titles file.")
			}
			return err
		},
	}
}

// runSplit loads the manifest (producing its backup), builds the archiver,
// and drives one batch run. The summary tally is printed regardless of how
// the run ended; a configuration-incomplete error propagates to abort the
// process.
func (a *app) runSplit(ctx context.Context) error {
	store, err := manifest.Load(a.cfg.ManifestPath())
	if err != nil {
		return err
	}
	a.logger.Info("manifest loaded",
		slog.String("path", store.Path()),
		slog.String("backup", manifest.BackupPath(store.Path())),
		slog.Int("entries", store.Len()),
	)

	archiver, err := a.newArchiver()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(store, a.segmenter, archiver, batch.Options{
		InputDir:       a.cfg.InputDir,
		SplitDir:       a.cfg.SplitDir,
		FolderPerSplit: a.cfg.FolderPerSplit,
		SegmentMinutes: a.cfg.SegmentMinutes,
	}, a.logger)

	summary, runErr := runner.Run(ctx)

	fmt.Fprintln(a.stdout, "Processing complete!")
	fmt.Fprintf(a.stdout, "  Successfully processed: %d\n", summary.Processed)
	fmt.Fprintf(a.stdout, "  Failed: %d\n", summary.Failed)

	if runErr != nil {
		if errors.Is(runErr, batch.ErrConfigurationIncomplete) {
			fmt.Fprintf(a.stdout, "Please edit %s and fill in the 'base_name' field for all videos.\n", a.cfg.ManifestFile)
		}
		return runErr
	}
	return nil
}

// newArchiver builds the completed-file archiver, S3-backed when configured.
func (a *app) newArchiver() (storage.Archiver, error) {
	if a.cfg.S3Enabled() {
		s3Archiver, err := storage.NewS3Archiver(a.cfg.CompletedDir, storage.S3Config{
			Bucket:          a.cfg.S3Bucket,
			Region:          a.cfg.S3Region,
			Endpoint:        a.cfg.S3Endpoint,
			AccessKeyID:     a.cfg.AWSAccessKeyID,
			SecretAccessKey: a.cfg.AWSSecretAccessKey,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("create S3 archiver: %w", err)
		}
		a.logger.Info("S3 archive configured",
			slog.String("bucket", a.cfg.S3Bucket),
			slog.String("region", a.cfg.S3Region),
		)
		return s3Archiver, nil
	}

	localArchiver, err := storage.NewLocalArchiver(a.cfg.CompletedDir)
	if err != nil {
		return nil, fmt.Errorf("create local archiver: %w", err)
	}
	return localArchiver, nil
}
