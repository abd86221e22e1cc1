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

// IntrospectionHandler handles RFC 7662 token introspection requests.
type IntrospectionHandler struct {
	introspectionUseCase oauthUseCase.IntrospectionUseCase
	cfg                  *config.Config
	logger               *slog.Logger
}

// NewIntrospectionHandler creates a new introspection handler with
// required dependencies.
func NewIntrospectionHandler(
	introspectionUseCase oauthUseCase.IntrospectionUseCase,
	cfg *config.Config,
	logger *slog.Logger,
) *IntrospectionHandler {
	return &IntrospectionHandler{
		introspectionUseCase: introspectionUseCase,
		cfg:                  cfg,
		logger:               logger,
	}
}

// IntrospectHandler reports the state of a token.
// POST /oauth/introspect - Client authentication required
// (ClientAuthMiddleware).
// Returns 200 OK with the token metadata when the caller may see it, or
// the uniform {"active": false} response otherwise. Unknown, expired,
// revoked, and foreign tokens are indistinguishable in the output.
func (h *IntrospectionHandler) IntrospectHandler(c *gin.Context) {
	var req dto.IntrospectionRequest

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

	requester := &oauthUseCase.Requester{
		ClientID:        client.ID,
		BypassOwnership: h.cfg.IsTrustedIntrospectionClient(client.ClientID),
	}

	response, err := h.introspectionUseCase.Introspect(c.Request.Context(), req.Token, requester)
	if err != nil {
		httputil.HandleOAuthErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}
