package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/itsonlyfabs/teamchat/assistant"
	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/logging"
	"github.com/itsonlyfabs/teamchat/mention"
	"github.com/itsonlyfabs/teamchat/ratelimit"
	"github.com/itsonlyfabs/teamchat/store"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Store persists sessions and turn logs. Defaults to in-memory.
	Store core.ConversationStore
	// Limiter gates per-user turn submission. Defaults to 10/minute.
	Limiter core.RateLimiter
	// Invoker drives one participant's backend call. Defaults to a
	// mock-backed client suitable for development only.
	Invoker assistant.Invoker
	// ExchangeTimeout bounds one exchange's wall-clock time. Since targets
	// run concurrently this is roughly one call ceiling plus overhead.
	ExchangeTimeout time.Duration
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// SubmitResult is the outcome of one accepted exchange: the freshly
// persisted turns plus warnings for any broadcast targets that failed.
type SubmitResult struct {
	Turns    []core.Turn
	Warnings []string
}

// Engine coordinates turn submission: rate limit, mention resolution,
// routing, concurrent invocation, aggregation and atomic persistence.
// Public methods are safe for concurrent use; all mutable state lives in
// the injected store and limiter.
type Engine struct {
	store           core.ConversationStore
	limiter         core.RateLimiter
	invoker         assistant.Invoker
	exchangeTimeout time.Duration
	logger          logging.Logger
}

// New constructs an Engine with optional overrides.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Store:           store.NewInMemoryStore(),
		Limiter:         ratelimit.NewLimiter(),
		Invoker:         assistant.NewBackendClient(assistant.NewMockBackend()),
		ExchangeTimeout: 20 * time.Second,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		store:           opts.Store,
		limiter:         opts.Limiter,
		invoker:         opts.Invoker,
		exchangeTimeout: opts.ExchangeTimeout,
		logger:          opts.Logger,
	}
}

// CreateSession registers a new session over the given roster. Roster ids
// must be unique and non-empty.
func (e *Engine) CreateSession(ctx context.Context, sessionID string, participants ...core.Participant) (*core.ChatSession, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("session %s needs at least one participant", sessionID)
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p.ID == "" {
			return nil, fmt.Errorf("participant with empty id in session %s", sessionID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate participant %s in session %s", p.ID, sessionID)
		}
		seen[p.ID] = struct{}{}
	}

	session := core.NewSession(sessionID, participants...)
	if err := e.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	e.logger.Info("session created session_id=%s mode=%s participants=%d", sessionID, session.Mode, len(participants))
	return session, nil
}

// SubmitTurn routes one user message and returns the persisted exchange.
//
// The rate gate and session load happen before any external call. For
// bundle sessions the text is scanned for mentions; routing precedence is
// broadcast > mentions > active participant. All targets are invoked
// concurrently under the exchange deadline, results are aggregated and the
// whole exchange (user turn included) is appended atomically. On any
// terminal error nothing is persisted, so the log never contains a ghost
// turn for a call that never completed.
func (e *Engine) SubmitTurn(ctx context.Context, sessionID, userID, text string, broadcast bool) (*SubmitResult, error) {
	if !e.limiter.Allow(userID) {
		return nil, fmt.Errorf("user %s: %w", userID, core.ErrRateLimited)
	}

	session, err := e.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := e.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var mentionTargets []string
	if session.Mode == core.ModeBundle {
		mentionTargets = mention.Resolve(session.Participants, text).Targets
	}

	targets, err := Route(session, mentionTargets, broadcast)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, e.exchangeTimeout)
	defer cancel()

	results := e.invokeAll(callCtx, targets, history, text)

	replies, warnings, err := aggregate(session, results)
	if err != nil {
		return nil, err
	}

	exchange := make([]core.Turn, 0, len(replies)+1)
	exchange = append(exchange, core.NewUserTurn(sessionID, text))
	exchange = append(exchange, replies...)
	stampExchange(exchange)

	if err := e.store.AppendTurns(ctx, sessionID, exchange); err != nil {
		return nil, fmt.Errorf("persist exchange: %w", err)
	}

	e.logger.Info("exchange completed session_id=%s targets=%d turns=%d warnings=%d duration=%s", sessionID, len(targets), len(exchange), len(warnings), time.Since(start))

	return &SubmitResult{Turns: exchange, Warnings: warnings}, nil
}

// SwitchActiveParticipant changes the default target of a bundle session.
// It fails with core.ErrInvalidParticipant for ids outside the roster,
// leaving the session untouched.
func (e *Engine) SwitchActiveParticipant(ctx context.Context, sessionID, participantID string) error {
	if err := e.store.SetActiveParticipant(ctx, sessionID, participantID); err != nil {
		return err
	}
	e.logger.Info("active participant switched session_id=%s participant_id=%s", sessionID, participantID)
	return nil
}

// ListTurns returns the session's log ordered by (Created, ID).
func (e *Engine) ListTurns(ctx context.Context, sessionID string) ([]core.Turn, error) {
	return e.store.ListTurns(ctx, sessionID)
}

// DeleteSession removes a session and cascades to its turns. It backs the
// external library-removal flow.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	if err := e.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	e.logger.Info("session deleted session_id=%s", sessionID)
	return nil
}

// Suggest exposes autocomplete candidates for a trailing @token, for callers
// building a mention picker.
func (e *Engine) Suggest(ctx context.Context, sessionID, draft string) ([]core.Participant, error) {
	session, err := e.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	_, candidates, ok := mention.Pending(session.Participants, draft)
	if !ok {
		return nil, nil
	}
	return candidates, nil
}

// stampExchange assigns strictly increasing timestamps in write order so the
// (Created, ID) total order always reads back user turn, individual replies,
// then summary.
func stampExchange(exchange []core.Turn) {
	base := time.Now().UTC()
	for i := range exchange {
		exchange[i].Created = base.Add(time.Duration(i) * time.Microsecond)
	}
}
