package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary cannot be launched.
var ErrFFmpegNotFound = errors.New("ffmpeg is not installed or not found in PATH")

// FFmpegSegmenter implements Segmenter using the ffmpeg CLI.
type FFmpegSegmenter struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
}

// NewFFmpegSegmenter creates a new FFmpegSegmenter.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegSegmenter(ffmpegPath string) *FFmpegSegmenter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegSegmenter{ffmpegPath: ffmpegPath}
}

// CheckAvailable runs "ffmpeg -version" to verify the tool can be launched.
func (s *FFmpegSegmenter) CheckAvailable(ctx context.Context) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, s.ffmpegPath, "-version")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}
	return nil
}

// FormatSegmentTime converts a segment length in minutes to the HH:MM:SS
// string ffmpeg expects. Seconds are always zero; this is a deliberate
// minutes-granularity duration.
func FormatSegmentTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// Segment splits sourcePath into stream-copied segments of segmentMinutes
// length named {baseName}_NNN.mp4 inside outputDir. The directory is created
// with any missing parents. A non-zero ffmpeg exit returns an *FFmpegError
// carrying the tool's stderr output.
func (s *FFmpegSegmenter) Segment(ctx context.Context, sourcePath, outputDir, baseName string, segmentMinutes int) error {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := segmentArgs(sourcePath, outputDir, baseName, segmentMinutes)
	return s.runFFmpeg(ctx, args)
}

// segmentArgs builds the ffmpeg argument list for segment splitting.
// Output is always remuxed into .mp4 containers regardless of the source.
func segmentArgs(sourcePath, outputDir, baseName string, segmentMinutes int) []string {
	outputPattern := filepath.Join(outputDir, baseName+"_%03d.mp4")

	return []string{
		"-i", sourcePath, // Input file
		"-c", "copy", // Copy streams without re-encoding
		"-map", "0", // Map all streams from the input
		"-segment_time", FormatSegmentTime(segmentMinutes), // Segment length
		"-f", "segment", // Segment muxer
		"-reset_timestamps", "1", // Restart timestamps in each segment
		outputPattern, // Output pattern with 3-digit index
	}
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (s *FFmpegSegmenter) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
