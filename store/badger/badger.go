// Package badger provides a durable core.ConversationStore on top of
// BadgerDB. Turn keys embed the session id, a zero-padded creation timestamp
// and the turn id, so a prefix scan returns a session's log already in
// (Created, ID) order. One exchange is written inside a single transaction,
// which gives the append-atomicity the engine relies on.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/logging"
)

const (
	sessionPrefix = "session:"
	turnPrefix    = "turn:"
)

// Options configure a Store.
type Options struct {
	Logger logging.Logger
}

// Store is a ConversationStore backed by a badger database. The database
// handle is owned by the caller unless the Store was built via Open.
type Store struct {
	db     *badger.DB
	logger logging.Logger
	owned  bool
}

// New wraps an existing badger database.
func New(db *badger.DB, optFns ...func(o *Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{db: db, logger: opts.Logger}
}

// Open opens (or creates) a badger database at path and wraps it. An empty
// path opens an in-memory database, which is handy for tests.
func Open(path string, optFns ...func(o *Options)) (*Store, error) {
	dbOpts := badger.DefaultOptions(path)
	if path == "" {
		dbOpts = dbOpts.WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(nil)

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := New(db, optFns...)
	s.owned = true
	return s, nil
}

// Close releases the database if this Store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func sessionKey(sessionID string) []byte {
	return []byte(sessionPrefix + sessionID)
}

// turnKey orders a session's turns lexicographically by creation time; the
// 19-digit zero padding keeps UnixNano sortable as text and the turn id
// breaks ties for writes landing on the same nanosecond.
func turnKey(turn core.Turn) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", turnPrefix, turn.SessionID, turn.Created.UnixNano(), turn.ID))
}

func turnScanPrefix(sessionID string) []byte {
	return []byte(turnPrefix + sessionID + ":")
}

// CreateSession implements core.ConversationStore.
func (s *Store) CreateSession(_ context.Context, session *core.ChatSession) error {
	key := sessionKey(session.ID)
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return core.ErrSessionExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

// LoadSession implements core.ConversationStore.
func (s *Store) LoadSession(_ context.Context, sessionID string) (*core.ChatSession, error) {
	var session core.ChatSession

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &session)
		})
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// AppendTurns implements core.ConversationStore. The whole exchange is
// written in one transaction, so readers either see all of it or none.
func (s *Store) AppendTurns(_ context.Context, sessionID string, turns []core.Turn) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(sessionKey(sessionID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return core.ErrSessionNotFound
			}
			return err
		}

		for _, turn := range turns {
			value, err := json.Marshal(turn)
			if err != nil {
				return fmt.Errorf("marshal turn %s: %w", turn.ID, err)
			}
			if err := txn.Set(turnKey(turn), value); err != nil {
				return err
			}
		}

		s.logger.Debug("appended exchange session_id=%s turns=%d", sessionID, len(turns))
		return nil
	})
}

// ListTurns implements core.ConversationStore via a prefix scan; the key
// layout already yields (Created, ID) order.
func (s *Store) ListTurns(_ context.Context, sessionID string) ([]core.Turn, error) {
	var turns []core.Turn

	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(sessionKey(sessionID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return core.ErrSessionNotFound
			}
			return err
		}

		prefix := turnScanPrefix(sessionID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var turn core.Turn
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &turn)
			})
			if err != nil {
				return err
			}
			turns = append(turns, turn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	core.SortTurns(turns)
	return turns, nil
}

// SetActiveParticipant implements core.ConversationStore.
func (s *Store) SetActiveParticipant(_ context.Context, sessionID, participantID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		var session core.ChatSession
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &session)
		}); err != nil {
			return err
		}

		if !session.HasParticipant(participantID) {
			return core.ErrInvalidParticipant
		}
		session.ActiveParticipantID = participantID

		value, err := json.Marshal(&session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		return txn.Set(sessionKey(sessionID), value)
	})
}

// DeleteSession implements core.ConversationStore, cascading to the
// session's turns in the same transaction.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(sessionKey(sessionID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return core.ErrSessionNotFound
			}
			return err
		}

		prefix := turnScanPrefix(sessionID)
		itOpts := badger.DefaultIteratorOptions
		itOpts.PrefetchValues = false
		it := txn.NewIterator(itOpts)

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return txn.Delete(sessionKey(sessionID))
	})
}
