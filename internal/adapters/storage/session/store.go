package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// Session is the server-side login state: the backend bearer token plus the
// identity shown in the UI. The raw cookie token is never stored, only its
// digest.
type Session struct {
	BearerToken string
	Name        string
	Email       string
	Role        string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// ErrNotFound is returned for unknown or expired session tokens.
var ErrNotFound = errors.New("session not found")

// Store persists sessions across restarts.
type Store interface {
	Save(ctx context.Context, token string, s Session) error
	// Get returns the session for a raw cookie token. Expired sessions are
	// deleted on read and reported as ErrNotFound.
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

// NewToken generates a random session token for the cookie.
func NewToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
