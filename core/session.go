package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionMode distinguishes one-to-one chats from multi-participant bundles.
type SessionMode string

const (
	// ModeSingle is a session with exactly one participant.
	ModeSingle SessionMode = "single"
	// ModeBundle is a team session with multiple addressable participants.
	ModeBundle SessionMode = "bundle"
)

// Participant is a named assistant taking part in a session. ID points at the
// backing assistant configuration and is unique within a roster. Nickname is
// an optional alternate handle used for @mention resolution; when empty the
// DisplayName doubles as the handle.
type Participant struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Nickname     string `json:"nickname,omitempty"`
	Model        string `json:"model,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Handle returns the name used for mention matching (nickname wins).
func (p Participant) Handle() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.DisplayName
}

// MatchesHandle reports whether token equals the participant's nickname or
// display name, compared case-insensitively.
func (p Participant) MatchesHandle(token string) bool {
	return strings.EqualFold(token, p.Nickname) || strings.EqualFold(token, p.DisplayName)
}

// ChatSession is the conversational container routed against by the engine.
// Participants keep roster order; ActiveParticipantID is the default target
// for bundle sessions when a turn carries no mention and no broadcast flag.
//
// Contract:
//   - Participants is non-empty; exactly one entry for ModeSingle
//   - ActiveParticipantID always names a roster entry
//   - Clone performs deep copies so stored sessions can diverge safely
type ChatSession struct {
	ID                  string        `json:"id"`
	Mode                SessionMode   `json:"mode"`
	Participants        []Participant `json:"participants"`
	ActiveParticipantID string        `json:"active_participant_id"`
	Created             time.Time     `json:"created"`
}

// NewSession creates a session over the given roster. Single-participant
// rosters produce a ModeSingle session; anything larger a ModeBundle one. The
// first roster entry starts as the active participant.
func NewSession(id string, participants ...Participant) *ChatSession {
	mode := ModeBundle
	if len(participants) == 1 {
		mode = ModeSingle
	}
	s := &ChatSession{
		ID:           id,
		Mode:         mode,
		Participants: participants,
		Created:      time.Now().UTC(),
	}
	if len(participants) > 0 {
		s.ActiveParticipantID = participants[0].ID
	}
	return s
}

// Participant returns the roster entry with the given id.
func (s *ChatSession) Participant(id string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// HasParticipant reports whether id names a roster entry.
func (s *ChatSession) HasParticipant(id string) bool {
	_, ok := s.Participant(id)
	return ok
}

// ActiveParticipant returns the roster entry currently designated as the
// default target.
func (s *ChatSession) ActiveParticipant() (Participant, bool) {
	return s.Participant(s.ActiveParticipantID)
}

// InRosterOrder filters the roster down to ids, preserving roster order
// regardless of the order ids were supplied in.
func (s *ChatSession) InRosterOrder(ids []string) []Participant {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	ordered := make([]Participant, 0, len(want))
	for _, p := range s.Participants {
		if _, ok := want[p.ID]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *ChatSession) Clone() *ChatSession {
	clone := *s
	clone.Participants = make([]Participant, len(s.Participants))
	copy(clone.Participants, s.Participants)
	return &clone
}

// NewID generates a new unique identifier for sessions, turns and runs.
func NewID() string { return uuid.NewString() }
