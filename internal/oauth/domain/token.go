package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token represents an issued access or refresh token. Only the SHA-256 hash
// of the token value is stored; the plain value is shown once at issuance.
type Token struct {
	ID        uuid.UUID // Unique identifier, doubles as the jti claim
	TokenHash string
	TokenType string // TokenTypeAccess or TokenTypeRefresh
	ClientID  uuid.UUID
	// UserID is the resource owner, nil for client-only tokens.
	UserID    *string
	Scopes    []string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Revoked reports whether the token has been revoked.
func (t *Token) Revoked() bool {
	return t.RevokedAt != nil
}

// Active reports whether the token is neither revoked nor expired at the
// given time.
func (t *Token) Active(now time.Time) bool {
	return !t.Revoked() && t.ExpiresAt.After(now)
}
