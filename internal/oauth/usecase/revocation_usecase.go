package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
)

// revocationUseCase implements RevocationUseCase per RFC 7009. Revoking an
// unknown or already-revoked token succeeds: the endpoint must not reveal
// whether a token value exists.
type revocationUseCase struct {
	tokenRepo    TokenRepository
	tokenService oauthService.TokenService
	logger       *slog.Logger
}

// Revoke invalidates the token identified by tokenValue. The lookup covers
// both token types since RFC 7009 clients need not know which they hold.
func (r *revocationUseCase) Revoke(
	ctx context.Context,
	tokenValue string,
	clientID uuid.UUID,
	bypassOwnership bool,
) (bool, error) {
	token, err := r.findToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, oauthDomain.ErrTokenNotFound) {
			// Unknown token: report success, reveal nothing.
			return true, nil
		}
		return false, err
	}

	if token.ClientID != clientID && !bypassOwnership {
		r.logger.Warn("revocation denied for foreign token",
			slog.String("requesting_client_id", clientID.String()),
			slog.String("token_client_id", token.ClientID.String()),
		)
		return false, nil
	}

	if token.Revoked() {
		// Idempotent: the original revocation time stands.
		return true, nil
	}

	if err := r.tokenRepo.Revoke(ctx, token.ID, time.Now().UTC()); err != nil {
		return false, err
	}

	r.logger.Info("token revoked",
		slog.String("token_id", token.ID.String()),
		slog.String("token_type", token.TokenType),
		slog.String("client_id", token.ClientID.String()),
	)

	return true, nil
}

// findToken resolves a plain token value checking access tokens first, then
// refresh tokens.
func (r *revocationUseCase) findToken(
	ctx context.Context,
	tokenValue string,
) (*oauthDomain.Token, error) {
	hash := r.tokenService.HashToken(tokenValue)

	token, err := r.tokenRepo.GetByHashAndType(ctx, hash, oauthDomain.TokenTypeAccess)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, oauthDomain.ErrTokenNotFound) {
		return nil, err
	}

	return r.tokenRepo.GetByHashAndType(ctx, hash, oauthDomain.TokenTypeRefresh)
}

// NewRevocationUseCase creates a new RevocationUseCase with the provided dependencies.
func NewRevocationUseCase(
	tokenRepo TokenRepository,
	tokenService oauthService.TokenService,
	logger *slog.Logger,
) RevocationUseCase {
	return &revocationUseCase{
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}
