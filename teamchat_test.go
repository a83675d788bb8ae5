package teamchat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsonlyfabs/teamchat/assistant"
	"github.com/itsonlyfabs/teamchat/config"
	"github.com/itsonlyfabs/teamchat/core"
)

func newTestChat(backend *assistant.MockBackend) *TeamChat {
	return New(func(o *Options) {
		o.Invoker = assistant.NewBackendClient(backend, func(o *assistant.Options) {
			o.PollInterval = time.Millisecond
			o.MaxPolls = 1000
		})
	})
}

func TestTeamChatSendAndHistory(t *testing.T) {
	ctx := context.Background()
	backend := assistant.NewMockBackend()
	backend.AddReply("coach", "start small")

	chat := newTestChat(backend)

	_, err := chat.CreateSession(ctx, "s1", core.Participant{ID: "coach", DisplayName: "Coach", Nickname: "coach"})
	require.NoError(t, err)

	result, err := chat.Send(ctx, "s1", "user-1", "where do I start?")
	require.NoError(t, err)
	require.Len(t, result.Turns, 2)
	assert.Equal(t, "start small", result.Turns[1].Content)

	history, err := chat.History(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestTeamChatTeamFlow(t *testing.T) {
	ctx := context.Background()
	backend := assistant.NewMockBackend()
	backend.AddReply("coach", "go for it")
	backend.AddReply("critic", "too risky")

	chat := newTestChat(backend)

	_, err := chat.CreateSession(ctx, "team",
		core.Participant{ID: "coach", DisplayName: "Coach", Nickname: "coach"},
		core.Participant{ID: "critic", DisplayName: "Critic", Nickname: "critic"},
	)
	require.NoError(t, err)

	// Mention picks the critic.
	result, err := chat.Send(ctx, "team", "user-1", "@critic thoughts?")
	require.NoError(t, err)
	require.Len(t, result.Turns, 2)
	assert.Equal(t, "critic", result.Turns[1].ParticipantID)

	// Broadcast rolls both replies into a summary turn.
	result, err = chat.SendToAll(ctx, "team", "user-1", "final verdict?")
	require.NoError(t, err)
	require.Len(t, result.Turns, 4)
	assert.True(t, result.Turns[3].TeamSummary)

	// Autocomplete for a trailing token.
	candidates, err := chat.Suggest(ctx, "team", "ping @cr")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "critic", candidates[0].ID)

	require.NoError(t, chat.SwitchActiveParticipant(ctx, "team", "critic"))
	require.NoError(t, chat.DeleteSession(ctx, "team"))

	_, err = chat.History(ctx, "team")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestFromConfig(t *testing.T) {
	chat, cleanup, err := FromConfig(config.Config{
		Backend:         "mock",
		StoreDriver:     "memory",
		RateLimit:       5,
		RateWindow:      time.Minute,
		ExchangeTimeout: 10 * time.Second,
		PollInterval:    time.Millisecond,
		MaxPolls:        100,
		LogLevel:        "error",
	})
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	_, err = chat.CreateSession(ctx, "s1", core.Participant{ID: "coach", DisplayName: "Coach"})
	require.NoError(t, err)

	result, err := chat.Send(ctx, "s1", "user-1", "hello")
	require.NoError(t, err)
	assert.Len(t, result.Turns, 2)
}

func TestFromConfigRejectsUnknownDriver(t *testing.T) {
	_, _, err := FromConfig(config.Config{Backend: "mock", StoreDriver: "dynamo"})
	require.Error(t, err)
}
