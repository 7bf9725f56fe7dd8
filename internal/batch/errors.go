package batch

import "errors"

// Static errors for batch processing.
var (
	// ErrSourceMissing is returned when a manifest entry's file does not
	// exist in the input directory. Per-item: the batch continues.
	ErrSourceMissing = errors.New("batch: source video not found")

	// ErrConfigurationIncomplete is returned when an entry is reached with
	// an empty base_name. Fatal: the whole run aborts so the operator
	// completes the manifest instead of silently skipping entries.
	ErrConfigurationIncomplete = errors.New("batch: manifest entry has empty base_name")
)
