// Package cli wires the segmenter's commands: an interactive menu at the
// root plus non-interactive scan and split subcommands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maauso/video-segmenter/internal/config"
	"github.com/maauso/video-segmenter/internal/media"
)

// app carries the resolved configuration and collaborators shared by all
// commands. Tests inject their own config, segmenter, and I/O streams.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	segmenter media.Segmenter
	stdin     io.Reader
	stdout    io.Writer
}

// Execute builds the default application and runs the root command.
func Execute() error {
	a := &app{stdin: os.Stdin, stdout: os.Stdout}
	return newRootCommand(a).Execute()
}

func newRootCommand(a *app) *cobra.Command {
	var (
		inputDirFlag     string
		splitDirFlag     string
		completedDirFlag string
		titlesFileFlag   string
		folderPerSplit   bool
		segmentLength    int
	)

	rootCmd := &cobra.Command{
		Use:           "video-segmenter",
		Short:         "Split videos into fixed-length segments with ffmpeg",
		Long: "video-segmenter batch-splits source videos into fixed-length .mp4 segments,\n" +
			"driven by an operator-edited titles manifest. Run without a subcommand for\n" +
			"the interactive menu.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg == nil {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				a.cfg = cfg
			}

			// CLI flags override environment values.
			pf := cmd.Root().PersistentFlags()
			if pf.Changed("input-dir") {
				a.cfg.InputDir = inputDirFlag
			}
			if pf.Changed("split-dir") {
				a.cfg.SplitDir = splitDirFlag
			}
			if pf.Changed("completed-dir") {
				a.cfg.CompletedDir = completedDirFlag
			}
			if pf.Changed("titles-file") {
				a.cfg.ManifestFile = titlesFileFlag
			}
			if pf.Changed("folder-per-split") {
				a.cfg.FolderPerSplit = folderPerSplit
			}
			if pf.Changed("segment-length") {
				a.cfg.SegmentMinutes = segmentLength
			}

			if err := a.cfg.Validate(); err != nil {
				return err
			}

			if a.logger == nil {
				a.logger = a.cfg.NewLogger()
				slog.SetDefault(a.logger)
			}
			if a.segmenter == nil {
				a.segmenter = media.NewFFmpegSegmenter(a.cfg.FFmpegPath)
			}

			// Fail fast before touching any files when ffmpeg is missing.
			if err := a.segmenter.CheckAvailable(cmd.Context()); err != nil {
				return fmt.Errorf("%w\nPlease install ffmpeg before running this tool", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&inputDirFlag, "input-dir", "i", ".", "Input directory containing video files")
	pf.StringVarP(&splitDirFlag, "split-dir", "s", "split", "Output directory for split videos")
	pf.StringVarP(&completedDirFlag, "completed-dir", "c", "completed", "Directory to move completed videos")
	pf.StringVarP(&titlesFileFlag, "titles-file", "t", "video_titles.json", "Name of the titles JSON file")
	pf.BoolVarP(&folderPerSplit, "folder-per-split", "f", false, "Create a separate folder for each split video")
	pf.IntVarP(&segmentLength, "segment-length", "l", 15, "Segment length in minutes")

	rootCmd.AddCommand(newScanCommand(a))
	rootCmd.AddCommand(newSplitCommand(a))

	return rootCmd
}
