package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortTurns_ByCreatedThenID(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	turns := []Turn{
		{ID: "b", Created: ts},
		{ID: "c", Created: ts.Add(-time.Second)},
		{ID: "a", Created: ts},
	}

	SortTurns(turns)

	assert.Equal(t, "c", turns[0].ID)
	// Same timestamp: id breaks the tie.
	assert.Equal(t, "a", turns[1].ID)
	assert.Equal(t, "b", turns[2].ID)
}

func TestTurnConstructors(t *testing.T) {
	user := NewUserTurn("s1", "hello")
	assert.Equal(t, RoleUser, user.Role)
	assert.Empty(t, user.ParticipantID)
	assert.False(t, user.TeamSummary)

	reply := NewAssistantTurn("s1", "p1", "hi there")
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "p1", reply.ParticipantID)
	assert.False(t, reply.TeamSummary)

	summary := NewTeamSummaryTurn("s1", "roll-up")
	assert.Equal(t, RoleAssistant, summary.Role)
	assert.Empty(t, summary.ParticipantID)
	assert.True(t, summary.TeamSummary)
}
