package store

import (
	"context"
	"sync"

	"github.com/itsonlyfabs/teamchat/core"
)

// InMemoryStore is a volatile ConversationStore implementation keeping
// sessions and turn logs in process local maps. It is safe for concurrent
// access. Each returned session or turn slice is a copy to prevent external
// mutation of internal state; AppendTurns installs a whole exchange under one
// lock acquisition so readers never see a partial write.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.ChatSession
	turns    map[string][]core.Turn
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*core.ChatSession),
		turns:    make(map[string][]core.Turn),
	}
}

// CreateSession stores a clone of the given session.
func (s *InMemoryStore) CreateSession(_ context.Context, session *core.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return core.ErrSessionExists
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

// LoadSession returns a clone of the stored session.
func (s *InMemoryStore) LoadSession(_ context.Context, sessionID string) (*core.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// AppendTurns adds a whole exchange to the session's log atomically.
func (s *InMemoryStore) AppendTurns(_ context.Context, sessionID string, turns []core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return core.ErrSessionNotFound
	}
	s.turns[sessionID] = append(s.turns[sessionID], turns...)
	return nil
}

// ListTurns returns a copy of the session's log ordered by (Created, ID).
func (s *InMemoryStore) ListTurns(_ context.Context, sessionID string) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, core.ErrSessionNotFound
	}
	turns := make([]core.Turn, len(s.turns[sessionID]))
	copy(turns, s.turns[sessionID])
	core.SortTurns(turns)
	return turns, nil
}

// SetActiveParticipant switches the default target, rejecting ids outside
// the roster and leaving the session unchanged on failure.
func (s *InMemoryStore) SetActiveParticipant(_ context.Context, sessionID, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return core.ErrSessionNotFound
	}
	if !session.HasParticipant(participantID) {
		return core.ErrInvalidParticipant
	}
	session.ActiveParticipantID = participantID
	return nil
}

// DeleteSession removes the session and cascades to its turns.
func (s *InMemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return core.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.turns, sessionID)
	return nil
}
