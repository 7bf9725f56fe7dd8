// Package batch provides the controller that drives one segmentation run
// over the manifest: validate each entry, invoke the segmenter, relocate the
// source, and reconcile the manifest, one entry at a time in manifest order.
package batch

import (
	"errors"

	"github.com/maauso/video-segmenter/internal/manifest"
)

// Status represents the processing state of one manifest entry during a run.
type Status string

const (
	// StatusPending indicates the entry has not been looked at yet.
	StatusPending Status = "PENDING"
	// StatusValidating indicates the entry is being checked for a source
	// file and complete naming configuration.
	StatusValidating Status = "VALIDATING"
	// StatusSegmenting indicates the external tool is splitting the source.
	StatusSegmenting Status = "SEGMENTING"
	// StatusRelocating indicates the source is being moved to the completed
	// area after a successful split.
	StatusRelocating Status = "RELOCATING"
	// StatusReconciling indicates the manifest entry is being removed.
	StatusReconciling Status = "RECONCILING"
	// StatusDone indicates the entry was fully processed.
	StatusDone Status = "DONE"
	// StatusFailed indicates the entry failed and was left untouched.
	StatusFailed Status = "FAILED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("batch: invalid state transition")

// validTransitions defines which state transitions are allowed. Relocation
// always proceeds to reconciling: a failed move is a warning, not a failure.
var validTransitions = map[Status][]Status{
	StatusPending:     {StatusValidating},
	StatusValidating:  {StatusSegmenting, StatusFailed},
	StatusSegmenting:  {StatusRelocating, StatusFailed},
	StatusRelocating:  {StatusReconciling},
	StatusReconciling: {StatusDone},
	StatusDone:        {},
	StatusFailed:      {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Item tracks one manifest entry through a run. It appears in the run
// summary so callers can see what happened to each entry.
type Item struct {
	// Entry is the manifest record being processed.
	Entry manifest.Entry
	// Status is the state the entry ended the run in.
	Status Status
	// Err holds the failure reason when Status is FAILED.
	Err error
}

// transitionTo attempts to change the item status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (i *Item) transitionTo(status Status) error {
	if !canTransition(i.Status, status) {
		return ErrInvalidTransition
	}
	i.Status = status
	return nil
}

// fail marks the item FAILED with the given reason.
func (i *Item) fail(err error) {
	i.Status = StatusFailed
	i.Err = err
}
