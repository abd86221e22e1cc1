package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/httputil"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http/dto"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// DeviceAuthorizationHandler handles RFC 8628 device authorization requests.
type DeviceAuthorizationHandler struct {
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase
	pkceUseCase       oauthUseCase.PkceUseCase
	clientRepo        oauthUseCase.ClientRepository
	logger            *slog.Logger
}

// NewDeviceAuthorizationHandler creates a new device authorization handler
// with required dependencies.
func NewDeviceAuthorizationHandler(
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase,
	pkceUseCase oauthUseCase.PkceUseCase,
	clientRepo oauthUseCase.ClientRepository,
	logger *slog.Logger,
) *DeviceAuthorizationHandler {
	return &DeviceAuthorizationHandler{
		deviceFlowUseCase: deviceFlowUseCase,
		pkceUseCase:       pkceUseCase,
		clientRepo:        clientRepo,
		logger:            logger,
	}
}

// DeviceAuthorizationHandler issues a device/user code pair for a client.
// POST /oauth/device_authorization - No client authentication required
// (device-flow clients are typically public).
// Returns 200 OK with the RFC 8628 section 3.2 response.
func (h *DeviceAuthorizationHandler) DeviceAuthorizationHandler(c *gin.Context) {
	var req dto.DeviceAuthorizationRequest

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

	// PKCE parameters are validated up front so the client learns about a
	// bad challenge now rather than after the user approves.
	if req.CodeChallenge != "" || req.CodeChallengeMethod != "" {
		if !h.validateChallenge(c, &req) {
			return
		}
	}

	output, err := h.deviceFlowUseCase.RequestDeviceAuthorization(
		c.Request.Context(),
		req.ClientID,
		strings.Fields(req.Scope),
	)
	if err != nil {
		httputil.HandleOAuthErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, output)
}

// validateChallenge runs the PKCE engine against the supplied challenge.
// Writes the error response and returns false when validation fails.
func (h *DeviceAuthorizationHandler) validateChallenge(
	c *gin.Context,
	req *dto.DeviceAuthorizationRequest,
) bool {
	client, err := h.clientRepo.GetByClientID(c.Request.Context(), req.ClientID)
	if err != nil {
		// The flow use case reports unknown clients as invalid_client; do
		// the same here so the two paths agree.
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidClient, "unknown client"),
			h.logger)
		return false
	}

	result, err := h.pkceUseCase.ValidatePkceParameters(c.Request.Context(), &oauthUseCase.ValidatePkceInput{
		Client:              client,
		CodeChallenge:       req.CodeChallenge,
		CodeChallengeMethod: req.CodeChallengeMethod,
	})
	if err != nil {
		httputil.HandleOAuthErrorGin(c, err, h.logger)
		return false
	}

	if !result.Valid {
		// Full detail stays in the audit log; the client gets a generic
		// description.
		h.logger.Warn("pkce challenge rejected",
			slog.String("client_id", req.ClientID),
			slog.Any("errors", result.Errors))
		httputil.HandleOAuthErrorGin(c,
			oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidRequest, "invalid PKCE parameters"),
			h.logger)
		return false
	}

	for _, warning := range result.Warnings {
		h.logger.Warn("pkce challenge accepted with warning",
			slog.String("client_id", req.ClientID),
			slog.String("warning", warning))
	}

	return true
}
