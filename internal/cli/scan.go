package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maauso/video-segmenter/internal/discovery"
)

func newScanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Generate the titles manifest from the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.runScan()
			if errors.Is(err, discovery.ErrNoVideos) {
				// Message already printed; an empty input dir is not a failure.
				return nil
			}
			return err
		},
	}
}

// runScan discovers videos and writes a fresh manifest with empty naming
// fields for the operator to edit. No manifest is written when the input
// directory has no recognized videos.
func (a *app) runScan() error {
	manifestPath := a.cfg.ManifestPath()

	count, err := discovery.WriteManifest(a.cfg.InputDir, manifestPath)
	if err != nil {
		if errors.Is(err, discovery.ErrNoVideos) {
			fmt.Fprintf(a.stdout, "No video files found in %s\n", a.cfg.InputDir)
		}
		return err
	}

	fmt.Fprintf(a.stdout, "Generated titles file: %s\n", manifestPath)
	fmt.Fprintf(a.stdout, "  Found %d video file(s)\n", count)
	fmt.Fprintf(a.stdout, "Please edit %s to fill in 'base_name' and 'directory_name' fields.\n", a.cfg.ManifestFile)
	return nil
}
