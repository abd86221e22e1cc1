package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/config"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
)

// introspectionUseCase implements IntrospectionUseCase per RFC 7662. Every
// path that cannot show metadata returns the same inactive response so the
// endpoint leaks nothing about why: unknown, expired, revoked, and
// not-yours all look identical.
type introspectionUseCase struct {
	config       *config.Config
	clientRepo   ClientRepository
	tokenRepo    TokenRepository
	tokenService oauthService.TokenService
	logger       *slog.Logger
}

// Introspect returns the token's metadata or the uniform inactive response.
func (i *introspectionUseCase) Introspect(
	ctx context.Context,
	tokenValue string,
	requester *Requester,
) (*oauthDomain.IntrospectionResponse, error) {
	token, err := i.findToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, oauthDomain.ErrTokenNotFound) {
			return oauthDomain.InactiveIntrospection(), nil
		}
		return nil, err
	}

	if token.ClientID != requester.ClientID && !requester.BypassOwnership {
		i.logger.Debug("introspection of foreign token reported inactive",
			slog.String("requesting_client_id", requester.ClientID.String()),
		)
		return oauthDomain.InactiveIntrospection(), nil
	}

	if !token.Active(time.Now().UTC()) {
		return oauthDomain.InactiveIntrospection(), nil
	}

	client, err := i.clientRepo.Get(ctx, token.ClientID)
	if err != nil {
		if errors.Is(err, oauthDomain.ErrClientNotFound) {
			// Owning client deregistered: the token is effectively dead.
			return oauthDomain.InactiveIntrospection(), nil
		}
		return nil, err
	}

	response := &oauthDomain.IntrospectionResponse{
		Active:    true,
		Scope:     strings.Join(token.Scopes, " "),
		ClientID:  client.ClientID,
		TokenType: "Bearer",
		Exp:       token.ExpiresAt.Unix(),
		Iat:       token.CreatedAt.Unix(),
		Aud:       client.ClientID,
		Iss:       i.config.Issuer,
		Jti:       token.ID.String(),
	}
	if token.UserID != nil {
		response.Username = *token.UserID
		response.Sub = *token.UserID
	}

	return response, nil
}

// findToken resolves a plain token value checking access tokens first, then
// refresh tokens.
func (i *introspectionUseCase) findToken(
	ctx context.Context,
	tokenValue string,
) (*oauthDomain.Token, error) {
	hash := i.tokenService.HashToken(tokenValue)

	token, err := i.tokenRepo.GetByHashAndType(ctx, hash, oauthDomain.TokenTypeAccess)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, oauthDomain.ErrTokenNotFound) {
		return nil, err
	}

	return i.tokenRepo.GetByHashAndType(ctx, hash, oauthDomain.TokenTypeRefresh)
}

// NewIntrospectionUseCase creates a new IntrospectionUseCase with the provided dependencies.
func NewIntrospectionUseCase(
	cfg *config.Config,
	clientRepo ClientRepository,
	tokenRepo TokenRepository,
	tokenService oauthService.TokenService,
	logger *slog.Logger,
) IntrospectionUseCase {
	return &introspectionUseCase{
		config:       cfg,
		clientRepo:   clientRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}
