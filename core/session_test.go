package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSession_ModeFromRosterSize(t *testing.T) {
	solo := NewSession("s1", Participant{ID: "a", DisplayName: "Atlas"})
	assert.Equal(t, ModeSingle, solo.Mode)
	assert.Equal(t, "a", solo.ActiveParticipantID)

	team := NewSession("s2",
		Participant{ID: "a", DisplayName: "Atlas"},
		Participant{ID: "b", DisplayName: "Beacon"},
	)
	assert.Equal(t, ModeBundle, team.Mode)
	assert.Equal(t, "a", team.ActiveParticipantID)
}

func TestParticipant_Handle(t *testing.T) {
	withNick := Participant{ID: "a", DisplayName: "Atlas Coach", Nickname: "atlas"}
	assert.Equal(t, "atlas", withNick.Handle())

	noNick := Participant{ID: "b", DisplayName: "Beacon"}
	assert.Equal(t, "Beacon", noNick.Handle())
}

func TestParticipant_MatchesHandle_CaseInsensitive(t *testing.T) {
	p := Participant{ID: "a", DisplayName: "Atlas Coach", Nickname: "atlas"}
	assert.True(t, p.MatchesHandle("ATLAS"))
	assert.True(t, p.MatchesHandle("atlas coach"))
	assert.False(t, p.MatchesHandle("beacon"))
}

func TestChatSession_InRosterOrder(t *testing.T) {
	s := NewSession("s1",
		Participant{ID: "a", DisplayName: "Atlas"},
		Participant{ID: "b", DisplayName: "Beacon"},
		Participant{ID: "c", DisplayName: "Compass"},
	)

	// Requested out of order; roster order wins.
	ordered := s.InRosterOrder([]string{"c", "a"})
	assert.Len(t, ordered, 2)
	assert.Equal(t, "a", ordered[0].ID)
	assert.Equal(t, "c", ordered[1].ID)

	// Unknown ids are dropped silently.
	ordered = s.InRosterOrder([]string{"zz", "b"})
	assert.Len(t, ordered, 1)
	assert.Equal(t, "b", ordered[0].ID)
}

func TestChatSession_Clone_Isolated(t *testing.T) {
	s := NewSession("s1",
		Participant{ID: "a", DisplayName: "Atlas"},
		Participant{ID: "b", DisplayName: "Beacon"},
	)

	clone := s.Clone()
	clone.Participants[0].DisplayName = "Mutated"
	clone.ActiveParticipantID = "b"

	assert.Equal(t, "Atlas", s.Participants[0].DisplayName)
	assert.Equal(t, "a", s.ActiveParticipantID)
}
