package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/internal/testutil"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationStore = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func teamSession(id string) *core.ChatSession {
	return testutil.NewSessionBuilder(id).
		Participant("a", "Atlas", "atlas").
		Participant("b", "Beacon", "").
		Build()
}

func TestStore_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateSession(ctx, teamSession("s1")))
	assert.ErrorIs(t, s.CreateSession(ctx, teamSession("s1")), core.ErrSessionExists)

	loaded, err := s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, core.ModeBundle, loaded.Mode)
	assert.Len(t, loaded.Participants, 2)
	assert.Equal(t, "a", loaded.ActiveParticipantID)

	_, err = s.LoadSession(ctx, "ghost")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestStore_TurnsOrderedByKey(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateSession(ctx, teamSession("s1")))

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := []core.Turn{
		{ID: "u1", SessionID: "s1", Role: core.RoleUser, Content: "hi", Created: ts},
		{ID: "a1", SessionID: "s1", Role: core.RoleAssistant, ParticipantID: "a", Content: "hello", Created: ts.Add(time.Second)},
	}
	second := []core.Turn{
		{ID: "u2", SessionID: "s1", Role: core.RoleUser, Content: "more", Created: ts.Add(2 * time.Second)},
	}

	require.NoError(t, s.AppendTurns(ctx, "s1", first))
	require.NoError(t, s.AppendTurns(ctx, "s1", second))

	turns, err := s.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "u1", turns[0].ID)
	assert.Equal(t, "a1", turns[1].ID)
	assert.Equal(t, "u2", turns[2].ID)

	// Idempotent between writes.
	again, err := s.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, turns, again)
}

func TestStore_AppendToUnknownSession(t *testing.T) {
	s := openTestStore(t)
	err := s.AppendTurns(context.Background(), "ghost", []core.Turn{core.NewUserTurn("ghost", "hi")})
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestStore_SetActiveParticipant(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateSession(ctx, teamSession("s1")))

	require.NoError(t, s.SetActiveParticipant(ctx, "s1", "b"))
	loaded, err := s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.ActiveParticipantID)

	assert.ErrorIs(t, s.SetActiveParticipant(ctx, "s1", "zz"), core.ErrInvalidParticipant)
	loaded, err = s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.ActiveParticipantID)
}

func TestStore_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateSession(ctx, teamSession("s1")))
	require.NoError(t, s.AppendTurns(ctx, "s1", []core.Turn{core.NewUserTurn("s1", "hi")}))

	require.NoError(t, s.DeleteSession(ctx, "s1"))

	_, err := s.LoadSession(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	// Recreating the id starts from an empty log.
	require.NoError(t, s.CreateSession(ctx, teamSession("s1")))
	turns, err := s.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
