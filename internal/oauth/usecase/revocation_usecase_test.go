package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	serviceMocks "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service/mocks"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
	usecaseMocks "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase/mocks"
)

func activeToken(clientID uuid.UUID, tokenType string) *oauthDomain.Token {
	now := time.Now().UTC()
	return &oauthDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "hash-value",
		TokenType: tokenType,
		ClientID:  clientID,
		Scopes:    []string{"profile"},
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

// TestRevocationUseCase_Revoke tests the Revoke method of revocationUseCase.
func TestRevocationUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	newUseCase := func(tokenRepo usecase.TokenRepository) (usecase.RevocationUseCase, *serviceMocks.MockTokenService) {
		mockTokenService := &serviceMocks.MockTokenService{}
		mockTokenService.On("HashToken", "plain-token").Return("hash-value")
		return usecase.NewRevocationUseCase(tokenRepo, mockTokenService, testLogger()), mockTokenService
	}

	t.Run("Success_RevokesAccessToken", func(t *testing.T) {
		clientID := uuid.Must(uuid.NewV7())
		token := activeToken(clientID, oauthDomain.TokenTypeAccess)

		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeAccess).
			Return(token, nil)
		mockTokenRepo.On("Revoke", ctx, token.ID, mock.Anything).Return(nil)

		uc, _ := newUseCase(mockTokenRepo)

		revoked, err := uc.Revoke(ctx, "plain-token", clientID, false)
		require.NoError(t, err)
		assert.True(t, revoked)

		mockTokenRepo.AssertExpectations(t)
	})

	t.Run("Success_FallsBackToRefreshToken", func(t *testing.T) {
		clientID := uuid.Must(uuid.NewV7())
		token := activeToken(clientID, oauthDomain.TokenTypeRefresh)

		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeAccess).
			Return(nil, oauthDomain.ErrTokenNotFound)
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeRefresh).
			Return(token, nil)
		mockTokenRepo.On("Revoke", ctx, token.ID, mock.Anything).Return(nil)

		uc, _ := newUseCase(mockTokenRepo)

		revoked, err := uc.Revoke(ctx, "plain-token", clientID, false)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("Success_UnknownTokenRevealsNothing", func(t *testing.T) {
		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", mock.Anything).
			Return(nil, oauthDomain.ErrTokenNotFound)

		uc, _ := newUseCase(mockTokenRepo)

		revoked, err := uc.Revoke(ctx, "plain-token", uuid.Must(uuid.NewV7()), false)
		require.NoError(t, err)
		assert.True(t, revoked)

		mockTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Denied_ForeignToken", func(t *testing.T) {
		token := activeToken(uuid.Must(uuid.NewV7()), oauthDomain.TokenTypeAccess)

		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeAccess).
			Return(token, nil)

		uc, _ := newUseCase(mockTokenRepo)

		revoked, err := uc.Revoke(ctx, "plain-token", uuid.Must(uuid.NewV7()), false)
		require.NoError(t, err)
		assert.False(t, revoked)

		mockTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_ForeignTokenWithBypass", func(t *testing.T) {
		token := activeToken(uuid.Must(uuid.NewV7()), oauthDomain.TokenTypeAccess)

		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeAccess).
			Return(token, nil)
		mockTokenRepo.On("Revoke", ctx, token.ID, mock.Anything).Return(nil)

		uc, _ := newUseCase(mockTokenRepo)

		revoked, err := uc.Revoke(ctx, "plain-token", uuid.Must(uuid.NewV7()), true)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("Success_AlreadyRevokedIsIdempotent", func(t *testing.T) {
		clientID := uuid.Must(uuid.NewV7())
		token := activeToken(clientID, oauthDomain.TokenTypeAccess)
		revokedAt := time.Now().UTC().Add(-time.Minute)
		token.RevokedAt = &revokedAt

		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeAccess).
			Return(token, nil)

		uc, _ := newUseCase(mockTokenRepo)

		revoked, err := uc.Revoke(ctx, "plain-token", clientID, false)
		require.NoError(t, err)
		assert.True(t, revoked)

		mockTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_StorageFailure", func(t *testing.T) {
		mockTokenRepo := &usecaseMocks.MockTokenRepository{}
		mockTokenRepo.On("GetByHashAndType", ctx, "hash-value", oauthDomain.TokenTypeAccess).
			Return(nil, apperrors.ErrUnavailable)

		uc, _ := newUseCase(mockTokenRepo)

		_, err := uc.Revoke(ctx, "plain-token", uuid.Must(uuid.NewV7()), false)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})
}
