package core

import "context"

// ConversationStore persists sessions and their append-only turn logs.
//
// Contract:
//   - AppendTurns writes one exchange atomically: either all turns become
//     visible or none do. Readers never observe an individual reply without
//     its eventual team summary mid-write.
//   - ListTurns returns turns ordered by (Created, ID) and is idempotent
//     between writes.
//   - SetActiveParticipant is the only session metadata mutation; it fails
//     with ErrInvalidParticipant for ids outside the roster, leaving the
//     session unchanged.
//   - DeleteSession cascades to the session's turns.
type ConversationStore interface {
	CreateSession(ctx context.Context, session *ChatSession) error
	LoadSession(ctx context.Context, sessionID string) (*ChatSession, error)
	AppendTurns(ctx context.Context, sessionID string, turns []Turn) error
	ListTurns(ctx context.Context, sessionID string) ([]Turn, error)
	SetActiveParticipant(ctx context.Context, sessionID, participantID string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// RateLimiter gates how many turns a user may submit per window. Allow is
// side-effecting: an allowed call consumes budget. Implementations must be
// safe for concurrent use; the default is process-local (see the ratelimit
// package), distributed deployments swap in a shared-store implementation
// without changing call sites.
type RateLimiter interface {
	Allow(userID string) bool
}
