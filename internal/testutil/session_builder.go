package testutil

import (
	"github.com/itsonlyfabs/teamchat/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").
//		Participant("a", "Atlas", "atlas").
//		Participant("b", "Beacon", "").
//		Active("b").
//		Build()
type SessionBuilder struct {
	id           string
	participants []core.Participant
	active       string
}

// NewSessionBuilder creates a new builder for a session with the given id.
// Use chainable methods (Participant, Active) then call Build.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id}
}

// Participant appends a roster entry (chainable). Nickname may be empty.
func (b *SessionBuilder) Participant(id, displayName, nickname string) *SessionBuilder {
	b.participants = append(b.participants, core.Participant{ID: id, DisplayName: displayName, Nickname: nickname})
	return b
}

// Active overrides the active participant id (chainable). Defaults to the
// first roster entry.
func (b *SessionBuilder) Active(id string) *SessionBuilder {
	b.active = id
	return b
}

// Build returns a *core.ChatSession with the configured roster.
func (b *SessionBuilder) Build() *core.ChatSession {
	s := core.NewSession(b.id, b.participants...)
	if b.active != "" {
		s.ActiveParticipantID = b.active
	}
	return s
}
