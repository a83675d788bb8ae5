package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/internal/testutil"
)

func TestRoute(t *testing.T) {
	single := testutil.NewSessionBuilder("s1").
		Participant("coach", "Coach", "coach").
		Build()

	bundle := testutil.NewSessionBuilder("b1").
		Participant("coach", "Coach", "coach").
		Participant("mentor", "Mentor", "mentor").
		Participant("critic", "Critic", "critic").
		Active("mentor").
		Build()

	t.Run("single mode always routes to the sole participant", func(t *testing.T) {
		targets, err := Route(single, []string{"coach"}, true)
		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, "coach", targets[0].ID)
	})

	t.Run("no mentions routes to the active participant", func(t *testing.T) {
		targets, err := Route(bundle, nil, false)
		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, "mentor", targets[0].ID)
	})

	t.Run("mentions route to the mentioned participants in roster order", func(t *testing.T) {
		targets, err := Route(bundle, []string{"critic", "coach"}, false)
		require.NoError(t, err)
		require.Len(t, targets, 2)
		assert.Equal(t, "coach", targets[0].ID)
		assert.Equal(t, "critic", targets[1].ID)
	})

	t.Run("broadcast routes to the full roster and wins over mentions", func(t *testing.T) {
		targets, err := Route(bundle, []string{"critic"}, true)
		require.NoError(t, err)
		require.Len(t, targets, 3)
		assert.Equal(t, "coach", targets[0].ID)
		assert.Equal(t, "mentor", targets[1].ID)
		assert.Equal(t, "critic", targets[2].ID)
	})

	t.Run("missing active participant fails", func(t *testing.T) {
		broken := testutil.NewSessionBuilder("b2").
			Participant("coach", "Coach", "coach").
			Participant("mentor", "Mentor", "mentor").
			Build()
		broken.ActiveParticipantID = "gone"

		_, err := Route(broken, nil, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidParticipant)
	})
}
