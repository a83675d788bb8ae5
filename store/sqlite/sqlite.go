// Package sqlite provides a relational core.ConversationStore backed by the
// pure-Go SQLite driver. The roster is embedded in the session row as JSON;
// turns live in their own table keyed by (session_id, created, id) so the
// log reads back ordered. Turn timestamps are stored as UnixNano integers,
// keeping the ORDER BY numeric regardless of fractional-second formatting.
// One exchange is appended inside a single transaction, which gives the
// append-atomicity the engine relies on.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/itsonlyfabs/teamchat/core"
	"github.com/itsonlyfabs/teamchat/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	mode         TEXT NOT NULL,
	active_id    TEXT NOT NULL,
	participants TEXT NOT NULL,
	created      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	role           TEXT NOT NULL,
	content        TEXT NOT NULL,
	participant_id TEXT NOT NULL DEFAULT '',
	team_summary   INTEGER NOT NULL DEFAULT 0,
	created        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_session_order ON turns(session_id, created, id);
`

// Options configure a Store.
type Options struct {
	Logger logging.Logger
}

// Store is a ConversationStore on a SQLite database.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) a SQLite database at path and prepares the schema.
// Use ":memory:" for an in-memory database (useful for tests).
func Open(path string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}

	return &Store{db: db, logger: opts.Logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// CreateSession implements core.ConversationStore.
func (s *Store) CreateSession(ctx context.Context, session *core.ChatSession) error {
	roster, err := json.Marshal(session.Participants)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, mode, active_id, participants, created) VALUES (?, ?, ?, ?, ?)`,
		session.ID, string(session.Mode), session.ActiveParticipantID, string(roster),
		session.Created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrSessionExists
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// LoadSession implements core.ConversationStore.
func (s *Store) LoadSession(ctx context.Context, sessionID string) (*core.ChatSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, active_id, participants, created FROM sessions WHERE id = ?`, sessionID)

	var (
		session core.ChatSession
		mode    string
		roster  string
		created string
	)
	if err := row.Scan(&session.ID, &mode, &session.ActiveParticipantID, &roster, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	session.Mode = core.SessionMode(mode)
	if err := json.Unmarshal([]byte(roster), &session.Participants); err != nil {
		return nil, fmt.Errorf("unmarshal roster: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse session timestamp: %w", err)
	}
	session.Created = ts

	return &session, nil
}

// AppendTurns implements core.ConversationStore inside one transaction.
func (s *Store) AppendTurns(ctx context.Context, sessionID string, turns []core.Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := sessionExistsTx(ctx, tx, sessionID); err != nil {
		return err
	}

	for _, turn := range turns {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO turns (id, session_id, role, content, participant_id, team_summary, created)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			turn.ID, sessionID, string(turn.Role), turn.Content, turn.ParticipantID,
			boolToInt(turn.TeamSummary), turn.Created.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert turn %s: %w", turn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	s.logger.Debug("appended exchange session_id=%s turns=%d", sessionID, len(turns))
	return nil
}

// ListTurns implements core.ConversationStore.
func (s *Store) ListTurns(ctx context.Context, sessionID string) ([]core.Turn, error) {
	if _, err := s.LoadSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, participant_id, team_summary, created
		 FROM turns WHERE session_id = ? ORDER BY created, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var (
			turn    core.Turn
			role    string
			summary int
			created int64
		)
		if err := rows.Scan(&turn.ID, &role, &turn.Content, &turn.ParticipantID, &summary, &created); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.SessionID = sessionID
		turn.Role = core.Role(role)
		turn.TeamSummary = summary != 0
		turn.Created = time.Unix(0, created).UTC()
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// SetActiveParticipant implements core.ConversationStore.
func (s *Store) SetActiveParticipant(ctx context.Context, sessionID, participantID string) error {
	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.HasParticipant(participantID) {
		return core.ErrInvalidParticipant
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET active_id = ? WHERE id = ?`, participantID, sessionID)
	if err != nil {
		return fmt.Errorf("update active participant: %w", err)
	}
	return nil
}

// DeleteSession implements core.ConversationStore; the turn cascade rides on
// the foreign key.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func sessionExistsTx(ctx context.Context, tx *sql.Tx, sessionID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrSessionNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
