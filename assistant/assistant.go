package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/logging"
)

// Invoker is the contract the engine depends on: drive one participant's
// backend through a full call and return the reply text. Invocations are
// stateless with respect to each other and may run concurrently.
type Invoker interface {
	Invoke(ctx context.Context, participant core.Participant, history []core.Turn, text string) (string, error)
}

// Provider exposes the remote run lifecycle of one backend family.
//
// Submit starts a run and returns its handle. Poll refreshes the handle's
// Status and StatusDetail. Reply extracts the assistant-authored text of a
// completed run and consumes the handle. Discard releases any state still
// tracked for a run that did not reach Reply (failure, timeout, poll error);
// handles are never reused, so every run ends in exactly one of the two.
type Provider interface {
	Submit(ctx context.Context, participant core.Participant, history []core.Turn, text string) (*core.RunHandle, error)
	Poll(ctx context.Context, handle *core.RunHandle) error
	Reply(ctx context.Context, handle *core.RunHandle) (string, error)
	Discard(handle *core.RunHandle)
}

// Options configure the poll loop of a Client.
type Options struct {
	// PollInterval is the fixed delay between status polls.
	PollInterval time.Duration
	// MaxPolls bounds the number of poll attempts; exceeding it is a
	// Timeout error, never a retry.
	MaxPolls int
	// Clock is injectable so cadence and ceiling are testable without real
	// delays.
	Clock core.Clock
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Client drives a Provider's run lifecycle to completion. It holds no state
// across invocations and is safe for concurrent use.
type Client struct {
	provider     Provider
	pollInterval time.Duration
	maxPolls     int
	clock        core.Clock
	logger       logging.Logger
}

// NewClient constructs a Client with a 1s poll interval and a 15 attempt
// ceiling by default.
func NewClient(provider Provider, optFns ...func(o *Options)) *Client {
	opts := Options{
		PollInterval: time.Second,
		MaxPolls:     15,
		Clock:        core.SystemClock{},
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{
		provider:     provider,
		pollInterval: opts.PollInterval,
		maxPolls:     opts.MaxPolls,
		clock:        opts.Clock,
		logger:       opts.Logger,
	}
}

// Invoke submits the conversation to the backend and polls the resulting run
// until it settles. A run that completes without assistant text yields
// core.ErrEmptyReply; a backend-reported failure yields *core.RunFailedError;
// exhausting the poll budget yields core.ErrTimeout. Retrying is the caller's
// decision.
func (c *Client) Invoke(ctx context.Context, participant core.Participant, history []core.Turn, text string) (string, error) {
	handle, err := c.provider.Submit(ctx, participant, history, text)
	if err != nil {
		return "", fmt.Errorf("submit run for participant %s: %w", participant.ID, err)
	}

	c.logger.Debug("assistant run submitted participant_id=%s run_id=%s", participant.ID, handle.RunID)

	reply, err := c.drive(ctx, participant, handle)
	if err != nil {
		// Reply consumes the handle on success; every other outcome must
		// release the run so nothing stays tracked past its lifecycle.
		c.provider.Discard(handle)
		return "", err
	}
	return reply, nil
}

// drive polls the run to a terminal outcome within the attempt budget.
func (c *Client) drive(ctx context.Context, participant core.Participant, handle *core.RunHandle) (string, error) {
	for attempt := 1; attempt <= c.maxPolls; attempt++ {
		if err := c.provider.Poll(ctx, handle); err != nil {
			return "", fmt.Errorf("poll run %s: %w", handle.RunID, err)
		}

		switch handle.Status {
		case core.RunCompleted:
			reply, err := c.provider.Reply(ctx, handle)
			if err != nil {
				return "", fmt.Errorf("fetch reply for run %s: %w", handle.RunID, err)
			}
			if strings.TrimSpace(reply) == "" {
				return "", core.ErrEmptyReply
			}
			c.logger.Debug("assistant run completed participant_id=%s run_id=%s polls=%d", participant.ID, handle.RunID, attempt)
			return reply, nil

		case core.RunFailed:
			return "", &core.RunFailedError{ParticipantID: participant.ID, Detail: handle.StatusDetail}
		}

		if attempt == c.maxPolls {
			break
		}
		if err := c.clock.Sleep(ctx, c.pollInterval); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("run %s exceeded %d polls: %w", handle.RunID, c.maxPolls, core.ErrTimeout)
}
