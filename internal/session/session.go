// Package session persists conversations in a local sqlite database so
// follow-up questions can carry prior turns into the prompt.
package session

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"repolens/internal/errors"
	"repolens/internal/logging"
)

// Session is one conversation against one repository.
type Session struct {
	ID        string    `json:"id"`
	RepoRoot  string    `json:"repoRoot"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is one turn in a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store wraps the sqlite database holding sessions and messages.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	repo_root  TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
`

// Open creates or opens the session database at path, creating parent
// directories as needed.
func Open(path string, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New(errors.SessionStore, "creating session directory", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.New(errors.SessionStore, "opening session database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.New(errors.SessionStore, "applying session schema", err)
	}

	return &Store{db: db, log: log.With("session")}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Create starts a new session for the given repository root.
func (s *Store) Create(ctx context.Context, repoRoot string) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		RepoRoot:  repoRoot,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, repo_root, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.RepoRoot, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return Session{}, errors.New(errors.SessionStore, "creating session", err)
	}

	s.log.Debug("session created", logging.Fields{"session": sess.ID})
	return sess, nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	var created, updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, repo_root, created_at, updated_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.RepoRoot, &created, &updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Session{}, errors.New(errors.SessionStore, fmt.Sprintf("session %s not found", id), err)
	}
	if err != nil {
		return Session{}, errors.New(errors.SessionStore, "loading session", err)
	}
	sess.CreatedAt = time.UnixMilli(created).UTC()
	sess.UpdatedAt = time.UnixMilli(updated).UTC()
	return sess, nil
}

// Append records one turn and touches the session's updated_at.
func (s *Store) Append(ctx context.Context, sessionID, role, content string) (Message, error) {
	now := time.Now().UTC()
	msg := Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Message{}, errors.New(errors.SessionStore, "starting transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`, now.UnixMilli(), sessionID)
	if err != nil {
		return Message{}, errors.New(errors.SessionStore, "touching session", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Message{}, errors.New(errors.SessionStore, fmt.Sprintf("session %s not found", sessionID), nil)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, now.UnixMilli())
	if err != nil {
		return Message{}, errors.New(errors.SessionStore, "appending message", err)
	}

	if err := tx.Commit(); err != nil {
		return Message{}, errors.New(errors.SessionStore, "committing message", err)
	}
	return msg, nil
}

// History returns the most recent limit messages of the session in
// chronological order. limit <= 0 means everything.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY rowid DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, errors.New(errors.SessionStore, "loading history", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var created int64
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &created); err != nil {
			return nil, errors.New(errors.SessionStore, "scanning message", err)
		}
		m.CreatedAt = time.UnixMilli(created).UTC()
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.SessionStore, "iterating history", err)
	}

	// Flip newest-first into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Delete removes a session and, via the foreign key, its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return errors.New(errors.SessionStore, "deleting session", err)
	}
	return nil
}
