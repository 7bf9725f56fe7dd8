package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalArchiver implements Archiver using local disk. Processed files are
// moved into a configurable completed directory.
type LocalArchiver struct {
	completedDir string
}

// NewLocalArchiver creates a new LocalArchiver.
// The completed directory is created if it doesn't exist.
func NewLocalArchiver(completedDir string) (*LocalArchiver, error) {
	if err := os.MkdirAll(completedDir, 0750); err != nil {
		return nil, fmt.Errorf("create completed directory: %w", err)
	}
	return &LocalArchiver{completedDir: completedDir}, nil
}

// CompletedDir returns the completed directory path.
func (a *LocalArchiver) CompletedDir() string {
	return a.completedDir
}

// Archive moves the file at srcPath to completedDir/filename. A plain rename
// is attempted first; when the source and destination live on different
// filesystems the move falls back to copy-then-remove.
func (a *LocalArchiver) Archive(ctx context.Context, srcPath, filename string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dst := filepath.Join(a.completedDir, filename)

	if err := os.Rename(srcPath, dst); err == nil {
		return nil
	}

	if err := copyFile(srcPath, dst); err != nil {
		return fmt.Errorf("move %s to completed: %w", filename, err)
	}
	if err := os.Remove(srcPath); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - src is provided by trusted internal code
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy to destination: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination file: %w", err)
	}
	return nil
}
