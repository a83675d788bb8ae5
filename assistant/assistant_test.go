package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/internal/testutil"
)

// scriptedProvider serves a fixed status sequence so the poll loop can be
// exercised deterministically. The last status repeats once the script runs out.
type scriptedProvider struct {
	statuses   []core.RunStatus
	detail     string
	reply      string
	replyErr   error
	polls      int
	submitted  int
	discards   int
	lastSubmit string
}

func (p *scriptedProvider) Submit(_ context.Context, participant core.Participant, _ []core.Turn, text string) (*core.RunHandle, error) {
	p.submitted++
	p.lastSubmit = text
	return core.NewRunHandle(participant.ID, core.NewID()), nil
}

func (p *scriptedProvider) Poll(_ context.Context, handle *core.RunHandle) error {
	idx := p.polls
	if idx >= len(p.statuses) {
		idx = len(p.statuses) - 1
	}
	p.polls++
	handle.Status = p.statuses[idx]
	handle.StatusDetail = p.detail
	return nil
}

func (p *scriptedProvider) Reply(context.Context, *core.RunHandle) (string, error) {
	return p.reply, p.replyErr
}

func (p *scriptedProvider) Discard(*core.RunHandle) {
	p.discards++
}

func testParticipant() core.Participant {
	return core.Participant{ID: "p1", DisplayName: "Atlas"}
}

func TestClient_Invoke_CompletesAfterPolling(t *testing.T) {
	provider := &scriptedProvider{
		statuses: []core.RunStatus{core.RunPending, core.RunRunning, core.RunRunning, core.RunCompleted},
		reply:    "hello from atlas",
	}
	clock := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	client := NewClient(provider, func(o *Options) {
		o.Clock = clock
	})

	reply, err := client.Invoke(context.Background(), testParticipant(), nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello from atlas", reply)
	assert.Equal(t, 4, provider.polls)
	// One sleep per non-terminal poll.
	assert.Equal(t, 3, clock.Sleeps())
}

func TestClient_Invoke_TimeoutAfterMaxPolls(t *testing.T) {
	provider := &scriptedProvider{statuses: []core.RunStatus{core.RunRunning}}
	clock := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	client := NewClient(provider, func(o *Options) {
		o.Clock = clock
		o.MaxPolls = 15
	})

	_, err := client.Invoke(context.Background(), testParticipant(), nil, "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Equal(t, 15, provider.polls)
	// No sleep after the final attempt.
	assert.Equal(t, 14, clock.Sleeps())
	// The exhausted run is released, not left tracked.
	assert.Equal(t, 1, provider.discards)
}

func TestClient_Invoke_RunFailed(t *testing.T) {
	provider := &scriptedProvider{
		statuses: []core.RunStatus{core.RunRunning, core.RunFailed},
		detail:   "backend exploded",
	}
	clock := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	client := NewClient(provider, func(o *Options) { o.Clock = clock })

	_, err := client.Invoke(context.Background(), testParticipant(), nil, "hi")
	require.Error(t, err)

	var runErr *core.RunFailedError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "p1", runErr.ParticipantID)
	assert.Equal(t, "backend exploded", runErr.Detail)
	assert.Equal(t, 1, provider.discards)
}

func TestClient_Invoke_EmptyReply(t *testing.T) {
	provider := &scriptedProvider{
		statuses: []core.RunStatus{core.RunCompleted},
		reply:    "   ",
	}
	clock := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	client := NewClient(provider, func(o *Options) { o.Clock = clock })

	_, err := client.Invoke(context.Background(), testParticipant(), nil, "hi")
	assert.ErrorIs(t, err, core.ErrEmptyReply)
}

func TestClient_Invoke_SubmitError(t *testing.T) {
	boom := errors.New("boom")
	client := NewClient(failingSubmitProvider{err: boom})

	_, err := client.Invoke(context.Background(), testParticipant(), nil, "hi")
	assert.ErrorIs(t, err, boom)
}

type failingSubmitProvider struct{ err error }

func (p failingSubmitProvider) Submit(context.Context, core.Participant, []core.Turn, string) (*core.RunHandle, error) {
	return nil, p.err
}

func (p failingSubmitProvider) Poll(context.Context, *core.RunHandle) error { return nil }

func (p failingSubmitProvider) Reply(context.Context, *core.RunHandle) (string, error) {
	return "", nil
}

func (p failingSubmitProvider) Discard(*core.RunHandle) {}
