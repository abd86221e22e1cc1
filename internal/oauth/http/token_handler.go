package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/httputil"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http/dto"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// TokenHandler handles token endpoint requests for the device
// authorization grant.
type TokenHandler struct {
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase
	logger            *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		deviceFlowUseCase: deviceFlowUseCase,
		logger:            logger,
	}
}

// TokenHandler polls for the token of a device authorization grant.
// POST /oauth/token - Client authentication required (ClientAuthMiddleware).
// Returns 200 OK with the token response once the user has approved, or
// 400 with authorization_pending/slow_down/expired_token/access_denied/
// invalid_grant while the flow is unresolved (RFC 8628 section 3.5).
func (h *TokenHandler) TokenHandler(c *gin.Context) {
	var req dto.TokenRequest

	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidRequest, "malformed request body"),
			h.logger)
		return
	}

	if req.GrantType != oauthDomain.DeviceCodeGrantType {
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(
				oauthDomain.ErrorCodeUnsupportedGrantType,
				"only the device authorization grant is supported",
			),
			h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidRequest, err.Error()),
			h.logger)
		return
	}

	output, err := h.deviceFlowUseCase.PollToken(c.Request.Context(), req.DeviceCode)
	if err != nil {
		httputil.HandleOAuthErrorGin(c, err, h.logger)
		return
	}

	// Token responses must not be cached (RFC 6749 section 5.1).
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, output)
}
