package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

func sampleToken() *oauthDomain.Token {
	now := time.Now().UTC()
	return &oauthDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "deadbeef",
		TokenType: oauthDomain.TokenTypeAccess,
		ClientID:  uuid.Must(uuid.NewV7()),
		Scopes:    []string{"profile"},
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestPostgreSQLTokenRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		token := sampleToken()
		mock.ExpectExec(`INSERT INTO oauth_tokens`).
			WithArgs(
				token.ID, token.TokenHash, token.TokenType, token.ClientID,
				nil, []byte(`["profile"]`), token.ExpiresAt, nil, token.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, token)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLTokenRepository_GetByHashAndType(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		token := sampleToken()
		rows := sqlmock.NewRows([]string{
			"id", "token_hash", "token_type", "client_id", "user_id",
			"scopes", "expires_at", "revoked_at", "created_at",
		}).AddRow(
			token.ID, token.TokenHash, token.TokenType, token.ClientID, nil,
			[]byte(`["profile"]`), token.ExpiresAt, nil, token.CreatedAt,
		)

		mock.ExpectQuery(`SELECT .+ FROM oauth_tokens WHERE token_hash = \$1 AND token_type = \$2`).
			WithArgs(token.TokenHash, token.TokenType).
			WillReturnRows(rows)

		got, err := repo.GetByHashAndType(ctx, token.TokenHash, token.TokenType)
		require.NoError(t, err)
		assert.Equal(t, token.ID, got.ID)
		assert.Equal(t, []string{"profile"}, got.Scopes)
		assert.Nil(t, got.UserID)
		assert.Nil(t, got.RevokedAt)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM oauth_tokens`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByHashAndType(ctx, "missing", oauthDomain.TokenTypeAccess)
		assert.ErrorIs(t, err, oauthDomain.ErrTokenNotFound)
	})
}

func TestPostgreSQLTokenRepository_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		id := uuid.Must(uuid.NewV7())
		revokedAt := time.Now().UTC()

		mock.ExpectExec(`UPDATE oauth_tokens SET revoked_at = \$1 WHERE id = \$2 AND revoked_at IS NULL`).
			WithArgs(revokedAt, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Revoke(ctx, id, revokedAt)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
