// Package teamchat provides a high-level façade over the engine and its
// services (sessions, assistant backends, rate limiting & logging) for
// building single- and multi-assistant chat experiences. Most applications
// interact with this package by:
//  1. Creating a TeamChat via New() (optionally overriding default in-memory services)
//  2. Creating sessions over a participant roster (one participant for a
//     plain chat, several for a team bundle)
//  3. Submitting user turns (Send, SendToAll) and reading back the log
//
// The façade delegates orchestration to engine.Engine while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable store, a
// real assistant backend and a structured logger.
package teamchat

import (
	"context"
	"fmt"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/itsonlyfabs/teamchat/assistant"
	"github.com/itsonlyfabs/teamchat/assistant/anthropic"
	"github.com/itsonlyfabs/teamchat/assistant/openai"
	"github.com/itsonlyfabs/teamchat/config"
	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/engine"
	"github.com/itsonlyfabs/teamchat/logging"
	"github.com/itsonlyfabs/teamchat/ratelimit"
	"github.com/itsonlyfabs/teamchat/store"
	badgerstore "github.com/itsonlyfabs/teamchat/store/badger"
	sqlitestore "github.com/itsonlyfabs/teamchat/store/sqlite"
)

// Options configures the TeamChat instance.
type Options struct {
	// Store persists sessions and turn logs. Defaults to in-memory.
	Store core.ConversationStore

	// Limiter gates per-user turn submission. Defaults to 10 turns per
	// minute per user.
	Limiter core.RateLimiter

	// Invoker drives assistant calls. Defaults to a mock backend that
	// echoes canned replies; supply an openai or anthropic backend for
	// real conversations.
	Invoker assistant.Invoker

	// ExchangeTimeout bounds one exchange's wall-clock time.
	ExchangeTimeout time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TeamChat is the high-level façade aggregating the underlying engine and services.
type TeamChat struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new TeamChat instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *TeamChat {
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

	e := engine.New(func(o *engine.Options) {
		o.Store = opts.Store
		o.Limiter = opts.Limiter
		o.Invoker = opts.Invoker
		o.ExchangeTimeout = opts.ExchangeTimeout
		o.Logger = opts.Logger
	})

	return &TeamChat{opts: opts, engine: e}
}

// FromConfig assembles a TeamChat from environment-driven configuration:
// backend, store driver, rate limit and timeouts. The returned cleanup
// closes any store the builder opened and is safe to call once.
func FromConfig(cfg config.Config) (*TeamChat, func() error, error) {
	logger := logging.NewSlogLogger(logLevel(cfg.LogLevel), "text", false)

	backend, err := buildBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	st, cleanup, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	chat := New(func(o *Options) {
		o.Store = st
		o.Limiter = ratelimit.NewLimiter(func(o *ratelimit.Options) {
			o.Limit = cfg.RateLimit
			o.Window = cfg.RateWindow
		})
		o.Invoker = assistant.NewBackendClient(backend, func(o *assistant.Options) {
			o.PollInterval = cfg.PollInterval
			o.MaxPolls = cfg.MaxPolls
			o.Logger = logger
		})
		o.ExchangeTimeout = cfg.ExchangeTimeout
		o.Logger = logger
	})

	return chat, cleanup, nil
}

func buildBackend(cfg config.Config) (assistant.Backend, error) {
	switch cfg.Backend {
	case "openai":
		return openai.NewBackend(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case "anthropic":
		return anthropic.NewBackend(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	case "mock":
		return assistant.NewMockBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func buildStore(cfg config.Config) (core.ConversationStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreDriver {
	case "memory":
		return store.NewInMemoryStore(), noop, nil
	case "badger":
		s, err := badgerstore.Open(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := sqlitestore.Open(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func logLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

// CreateSession registers a session over the given roster. One participant
// makes a single chat, several make a team bundle whose first entry starts
// as the active participant.
func (t *TeamChat) CreateSession(ctx context.Context, sessionID string, participants ...core.Participant) (*core.ChatSession, error) {
	return t.engine.CreateSession(ctx, sessionID, participants...)
}

// Send submits a user turn. In a bundle session @mentions in the text pick
// the targets; without mentions the active participant replies.
func (t *TeamChat) Send(ctx context.Context, sessionID, userID, text string) (*engine.SubmitResult, error) {
	return t.engine.SubmitTurn(ctx, sessionID, userID, text, false)
}

// SendToAll submits a user turn to every participant in the roster,
// aggregating their replies into a team summary.
func (t *TeamChat) SendToAll(ctx context.Context, sessionID, userID, text string) (*engine.SubmitResult, error) {
	return t.engine.SubmitTurn(ctx, sessionID, userID, text, true)
}

// SwitchActiveParticipant changes the default target of a bundle session.
func (t *TeamChat) SwitchActiveParticipant(ctx context.Context, sessionID, participantID string) error {
	return t.engine.SwitchActiveParticipant(ctx, sessionID, participantID)
}

// History returns the session's turn log in chronological order.
func (t *TeamChat) History(ctx context.Context, sessionID string) ([]core.Turn, error) {
	return t.engine.ListTurns(ctx, sessionID)
}

// Suggest returns mention autocomplete candidates for a draft message
// ending in a partial @token.
func (t *TeamChat) Suggest(ctx context.Context, sessionID, draft string) ([]core.Participant, error) {
	return t.engine.Suggest(ctx, sessionID, draft)
}

// DeleteSession removes a session and its turn log.
func (t *TeamChat) DeleteSession(ctx context.Context, sessionID string) error {
	return t.engine.DeleteSession(ctx, sessionID)
}
