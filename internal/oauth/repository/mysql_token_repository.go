package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/database"
	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// MySQLTokenRepository implements Token persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token into the MySQL database.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *oauthDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	scopesJSON, err := json.Marshal(token.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal scopes")
	}

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}
	clientID, err := token.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `INSERT INTO oauth_tokens
			  (id, token_hash, token_type, client_id, user_id, scopes, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		token.TokenType,
		clientID,
		token.UserID,
		scopesJSON,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "token hash already stored")
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByHashAndType retrieves a Token by hash and type from the MySQL database.
func (m *MySQLTokenRepository) GetByHashAndType(
	ctx context.Context,
	tokenHash, tokenType string,
) (*oauthDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, token_type, client_id, user_id, scopes, expires_at, revoked_at, created_at
			  FROM oauth_tokens WHERE token_hash = ? AND token_type = ?`

	var token oauthDomain.Token
	var idBytes, clientIDBytes, scopesJSON []byte

	err := querier.QueryRowContext(ctx, query, tokenHash, tokenType).Scan(
		&idBytes,
		&token.TokenHash,
		&token.TokenType,
		&clientIDBytes,
		&token.UserID,
		&scopesJSON,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	token.ID, err = uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	token.ClientID, err = uuid.FromBytes(clientIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}

	if err := json.Unmarshal(scopesJSON, &token.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal scopes")
	}

	return &token, nil
}

// Revoke marks the token revoked. Idempotent via the IS NULL guard.
func (m *MySQLTokenRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `UPDATE oauth_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, idBytes); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
