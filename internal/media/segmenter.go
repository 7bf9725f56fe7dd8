// Package media provides video segmentation through the ffmpeg CLI.
package media

import "context"

// Segmenter defines the interface for splitting a video into fixed-length
// segments. Implementations should use ffmpeg or a compatible tool.
type Segmenter interface {
	// CheckAvailable verifies the external tool can be launched. It must be
	// called once before any batch begins; callers abort the whole run when
	// it fails.
	CheckAvailable(ctx context.Context) error

	// Segment splits the video at sourcePath into segments of
	// segmentMinutes length, writing {baseName}_NNN.mp4 files into
	// outputDir. The output directory is created if needed. A non-nil error
	// is terminal for the item; there are no retries.
	Segment(ctx context.Context, sourcePath, outputDir, baseName string, segmentMinutes int) error
}
