package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/httputil"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http/dto"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
	customValidation "github.com/e0ipso/simple-oauth-21-sub003/internal/validation"
)

// DeviceVerificationHandler serves the verification endpoint where the
// resource owner looks up a user code and approves or denies the pending
// device authorization. These endpoints back the verification UI, not the
// OAuth wire protocol, so errors use the standard API error format.
type DeviceVerificationHandler struct {
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase
	clientRepo        oauthUseCase.ClientRepository
	logger            *slog.Logger
}

// NewDeviceVerificationHandler creates a new device verification handler
// with required dependencies.
func NewDeviceVerificationHandler(
	deviceFlowUseCase oauthUseCase.DeviceFlowUseCase,
	clientRepo oauthUseCase.ClientRepository,
	logger *slog.Logger,
) *DeviceVerificationHandler {
	return &DeviceVerificationHandler{
		deviceFlowUseCase: deviceFlowUseCase,
		clientRepo:        clientRepo,
		logger:            logger,
	}
}

// LookupHandler shows the pending authorization behind a user code.
// GET /oauth/device?user_code=XXXX-XXXX
// Returns 200 OK with the client name and requested scope, or 404 when the
// code is unknown or expired.
func (h *DeviceVerificationHandler) LookupHandler(c *gin.Context) {
	userCode := c.Query("user_code")
	if err := validation.Validate(userCode, validation.Required, customValidation.UserCode); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	code, err := h.deviceFlowUseCase.LookupUserCode(c.Request.Context(), userCode)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	clientName := ""
	if client, err := h.clientRepo.Get(c.Request.Context(), code.ClientID); err == nil {
		clientName = client.Name
	}

	response := dto.DeviceVerificationResponse{
		UserCode:   userCode,
		ClientName: clientName,
		Scope:      strings.Join(code.Scopes, " "),
		ExpiresAt:  code.ExpiresAt,
		Status:     string(code.Status(time.Now())),
	}

	c.JSON(http.StatusOK, response)
}

// DecisionHandler records the resource owner's approval or denial.
// POST /oauth/device
// Returns 200 OK once the decision is recorded, or 404 when the code is
// unknown, expired, or already resolved.
func (h *DeviceVerificationHandler) DecisionHandler(c *gin.Context) {
	var req dto.DeviceVerificationRequest

	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	approve := req.Action == "approve"
	err := h.deviceFlowUseCase.CompleteDeviceAuthorization(
		c.Request.Context(),
		req.UserCode,
		req.UserIdentifier,
		approve,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := "denied"
	if approve {
		status = "approved"
	}

	c.JSON(http.StatusOK, dto.DeviceDecisionResponse{
		UserCode: req.UserCode,
		Status:   status,
	})
}
