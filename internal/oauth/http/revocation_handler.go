package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/config"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/httputil"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http/dto"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// RevocationHandler handles RFC 7009 token revocation requests.
type RevocationHandler struct {
	revocationUseCase oauthUseCase.RevocationUseCase
	cfg               *config.Config
	logger            *slog.Logger
}

// NewRevocationHandler creates a new revocation handler with required
// dependencies.
func NewRevocationHandler(
	revocationUseCase oauthUseCase.RevocationUseCase,
	cfg *config.Config,
	logger *slog.Logger,
) *RevocationHandler {
	return &RevocationHandler{
		revocationUseCase: revocationUseCase,
		cfg:               cfg,
		logger:            logger,
	}
}

// RevokeHandler invalidates a token.
// POST /oauth/revoke - Client authentication required (ClientAuthMiddleware).
// Returns 200 OK with an empty body whether the token existed or not
// (RFC 7009 section 2.2: unknown tokens are already revoked from the
// caller's point of view). Returns 403 when the token belongs to another
// client and the caller is not on the trusted list.
func (h *RevocationHandler) RevokeHandler(c *gin.Context) {
	var req dto.RevocationRequest

	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidRequest, "malformed request body"),
			h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidRequest, err.Error()),
			h.logger)
		return
	}

	client, ok := GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleOAuthErrorGin(c, errInvalidClient, h.logger)
		return
	}

	bypass := h.cfg.IsTrustedIntrospectionClient(client.ClientID)

	revoked, err := h.revocationUseCase.Revoke(c.Request.Context(), req.Token, client.ID, bypass)
	if err != nil {
		httputil.HandleOAuthErrorGin(c, err, h.logger)
		return
	}

	if !revoked {
		// Ownership refusal is caller-distinguishable: the caller already
		// authenticated as some client, so a 403 leaks nothing beyond "not
		// yours".
		c.JSON(http.StatusForbidden, httputil.OAuthErrorResponse{
			Error:            "unauthorized_client",
			ErrorDescription: "token was not issued to this client",
		})
		return
	}

	c.Status(http.StatusOK)
}
