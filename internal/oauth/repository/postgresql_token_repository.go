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

// PostgreSQLTokenRepository implements Token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token into the PostgreSQL database.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *oauthDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	scopesJSON, err := json.Marshal(token.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal scopes")
	}

	query := `INSERT INTO oauth_tokens
			  (id, token_hash, token_type, client_id, user_id, scopes, expires_at, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.TokenType,
		token.ClientID,
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

// GetByHashAndType retrieves a Token by hash and type from the PostgreSQL database.
func (p *PostgreSQLTokenRepository) GetByHashAndType(
	ctx context.Context,
	tokenHash, tokenType string,
) (*oauthDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, token_type, client_id, user_id, scopes, expires_at, revoked_at, created_at
			  FROM oauth_tokens WHERE token_hash = $1 AND token_type = $2`

	var token oauthDomain.Token
	var scopesJSON []byte

	err := querier.QueryRowContext(ctx, query, tokenHash, tokenType).Scan(
		&token.ID,
		&token.TokenHash,
		&token.TokenType,
		&token.ClientID,
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

	if err := json.Unmarshal(scopesJSON, &token.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal scopes")
	}

	return &token, nil
}

// Revoke marks the token revoked. The IS NULL guard makes the operation
// idempotent: a second revocation keeps the original time.
func (p *PostgreSQLTokenRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth_tokens SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, revokedAt, id); err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	return nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
