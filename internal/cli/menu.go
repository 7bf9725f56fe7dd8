package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maauso/video-segmenter/internal/batch"
	"github.com/maauso/video-segmenter/internal/discovery"
	"github.com/maauso/video-segmenter/internal/manifest"
)

const menuDivider = "============================================================"

// runMenu loops until the operator exits. Per-item problems stay inside the
// split run; only a missing ffmpeg (caught earlier) or an incomplete
// manifest configuration terminate the process from here.
func (a *app) runMenu(ctx context.Context) error {
	scanner := bufio.NewScanner(a.stdin)

	for {
		a.printHeader()
		fmt.Fprint(a.stdout, "Select an option (1-3): ")

		if !scanner.Scan() {
			// stdin closed; treat like exit.
			return scanner.Err()
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			if err := a.runScan(); err != nil && !errors.Is(err, discovery.ErrNoVideos) {
				return err
			}
		case "2":
			err := a.runSplit(ctx)
			switch {
			case err == nil:
			case errors.Is(err, manifest.ErrNotFound):
				fmt.Fprintf(a.stdout, "Titles file not found: %s\n", a.cfg.ManifestPath())
				fmt.Fprintln(a.stdout, "Please run option 1 first to generate the titles file.")
			case errors.Is(err, batch.ErrConfigurationIncomplete):
				return err
			default:
				return err
			}
		case "3":
			fmt.Fprintln(a.stdout, "Exiting...")
			return nil
		default:
			fmt.Fprintln(a.stdout, "Invalid option. Please select 1, 2, or 3.")
		}
	}
}

// printHeader shows the effective configuration above the menu options.
func (a *app) printHeader() {
	fmt.Fprintln(a.stdout, menuDivider)
	fmt.Fprintln(a.stdout, "Video Segmenter")
	fmt.Fprintln(a.stdout, menuDivider)
	fmt.Fprintf(a.stdout, "Input directory: %s\n", a.cfg.InputDir)
	fmt.Fprintf(a.stdout, "Split directory: %s\n", a.cfg.SplitDir)
	fmt.Fprintf(a.stdout, "Completed directory: %s\n", a.cfg.CompletedDir)
	fmt.Fprintf(a.stdout, "Segment length: %d minutes\n", a.cfg.SegmentMinutes)
	fmt.Fprintf(a.stdout, "Folder per split: %t\n", a.cfg.FolderPerSplit)
	fmt.Fprintln(a.stdout, menuDivider)
	fmt.Fprintln(a.stdout, "Options:")
	fmt.Fprintln(a.stdout, "  1. Generate titles file")
	fmt.Fprintln(a.stdout, "  2. Split videos into segments")
	fmt.Fprintln(a.stdout, "  3. Exit")
}
