package session

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"academia/internal/adapters/storage"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a session keyed by the digest of its raw token.
// PRE: token is non-empty, s.ExpiresAt is set
// POST: Session is persisted (insert or replace)
func (s *SQLiteStore) Save(ctx context.Context, token string, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (token_hash, bearer_token, name, email, role, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(token_hash) DO UPDATE SET bearer_token=excluded.bearer_token, name=excluded.name,
		   email=excluded.email, role=excluded.role, created_at=excluded.created_at, expires_at=excluded.expires_at`,
		hashToken(token), sess.BearerToken, sess.Name, sess.Email, sess.Role,
		sess.CreatedAt.Format(time.RFC3339), sess.ExpiresAt.Format(time.RFC3339),
	)
	return err
}

// Get retrieves a session by raw token, deleting it when expired.
// PRE: token is non-empty
// POST: Returns the session or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, token string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT bearer_token, name, email, role, created_at, expires_at FROM session WHERE token_hash = ?",
		hashToken(token))

	var sess Session
	var createdAt, expiresAt string
	err := row.Scan(&sess.BearerToken, &sess.Name, &sess.Email, &sess.Role, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sess.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)

	if timeNow().After(sess.ExpiresAt) {
		_ = s.Delete(ctx, token)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session by raw token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token_hash = ?", hashToken(token))
	return err
}

// DeleteExpired removes all sessions past their expiry.
func (s *SQLiteStore) DeleteExpired(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE expires_at < ?",
		timeNow().Format(time.RFC3339))
	return err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
