package core

import (
	"sort"
	"time"
)

// Role identifies the author category of a turn.
type Role string

const (
	// RoleUser marks a turn authored by the human user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn authored by an assistant (or synthesized
	// from several assistant replies).
	RoleAssistant Role = "assistant"
)

// Turn is one append-only entry in a session's conversation log. After
// persistence it should be treated as immutable.
//
// ParticipantID is empty for user turns and for aggregated team-summary
// turns; TeamSummary disambiguates the latter. A turn sequence is totally
// ordered by (Created, ID).
type Turn struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Role          Role      `json:"role"`
	Content       string    `json:"content"`
	ParticipantID string    `json:"participant_id,omitempty"`
	TeamSummary   bool      `json:"team_summary,omitempty"`
	Created       time.Time `json:"created"`
}

// NewUserTurn creates a user-authored turn.
func NewUserTurn(sessionID, content string) Turn {
	return Turn{
		ID:        NewID(),
		SessionID: sessionID,
		Role:      RoleUser,
		Content:   content,
		Created:   time.Now().UTC(),
	}
}

// NewAssistantTurn creates an individual assistant reply attributed to a
// participant.
func NewAssistantTurn(sessionID, participantID, content string) Turn {
	return Turn{
		ID:            NewID(),
		SessionID:     sessionID,
		Role:          RoleAssistant,
		Content:       content,
		ParticipantID: participantID,
		Created:       time.Now().UTC(),
	}
}

// NewTeamSummaryTurn creates the aggregated roll-up turn written after a
// broadcast. It carries no participant attribution.
func NewTeamSummaryTurn(sessionID, content string) Turn {
	return Turn{
		ID:          NewID(),
		SessionID:   sessionID,
		Role:        RoleAssistant,
		Content:     content,
		TeamSummary: true,
		Created:     time.Now().UTC(),
	}
}

// SortTurns orders turns by creation time, breaking ties by id so the order
// is stable across reads.
func SortTurns(turns []Turn) {
	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].Created.Equal(turns[j].Created) {
			return turns[i].ID < turns[j].ID
		}
		return turns[i].Created.Before(turns[j].Created)
	})
}
