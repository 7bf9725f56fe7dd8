// Package storage relocates processed source videos into the completed
// archive. It defines the Archiver interface (port) and implementations for
// local disk and S3-backed archives.
package storage

import "context"

// Archiver moves a fully processed source file out of the input area.
// Implementations must keep the original filename. A failed archive is
// reported to the caller, which decides whether it is fatal; the batch
// controller downgrades it to a warning.
type Archiver interface {
	// Archive moves the file at srcPath into the completed area under
	// filename.
	Archive(ctx context.Context, srcPath, filename string) error
}
