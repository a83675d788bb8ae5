package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when a user exceeded the per-minute turn
	// budget. No external call is attempted.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidParticipant is returned when a referenced participant id is
	// not part of the session roster.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrTimeout is returned when a single assistant call exceeded its poll
	// ceiling. The core never retries; that decision belongs to the caller.
	ErrTimeout = errors.New("assistant call timed out")

	// ErrEmptyReply is returned when a completed run contains no
	// assistant-authored text.
	ErrEmptyReply = errors.New("assistant returned empty reply")

	// ErrAllParticipantsFailed is returned when every target of a broadcast
	// failed; in that case no turns are persisted.
	ErrAllParticipantsFailed = errors.New("all participants failed")

	// ErrSessionNotFound is returned by stores for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session whose id is
	// already taken.
	ErrSessionExists = errors.New("session already exists")
)

// RunFailedError reports a backend-side run failure, carrying the status
// detail the provider surfaced.
type RunFailedError struct {
	ParticipantID string
	Detail        string
}

// Error implements the error interface.
func (e *RunFailedError) Error() string {
	return fmt.Sprintf("assistant run failed for participant %s: %s", e.ParticipantID, e.Detail)
}
