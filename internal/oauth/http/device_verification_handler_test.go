package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http/dto"
	useCaseMocks "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase/mocks"
)

func setupVerificationTestHandler(t *testing.T) (
	*DeviceVerificationHandler,
	*useCaseMocks.MockDeviceFlowUseCase,
	*useCaseMocks.MockClientRepository,
) {
	t.Helper()

	mockDeviceFlow := &useCaseMocks.MockDeviceFlowUseCase{}
	mockClientRepo := &useCaseMocks.MockClientRepository{}
	handler := NewDeviceVerificationHandler(mockDeviceFlow, mockClientRepo, testLogger())

	return handler, mockDeviceFlow, mockClientRepo
}

func pendingDeviceCode(clientID uuid.UUID) *oauthDomain.DeviceCode {
	return &oauthDomain.DeviceCode{
		ID:         uuid.Must(uuid.NewV7()),
		DeviceCode: "device-code-1",
		UserCode:   "WDJBMJHT",
		ClientID:   clientID,
		Scopes:     []string{"profile", "email"},
		ExpiresAt:  time.Now().Add(30 * time.Minute),
		Interval:   5 * time.Second,
		CreatedAt:  time.Now(),
	}
}

func TestDeviceVerificationHandler_LookupHandler(t *testing.T) {
	t.Run("Success_PendingCode", func(t *testing.T) {
		handler, mockDeviceFlow, mockClientRepo := setupVerificationTestHandler(t)

		clientID := uuid.Must(uuid.NewV7())
		code := pendingDeviceCode(clientID)

		mockDeviceFlow.On("LookupUserCode", mock.Anything, "WDJB-MJHT").
			Return(code, nil).
			Once()
		mockClientRepo.On("Get", mock.Anything, clientID).
			Return(&oauthDomain.Client{ID: clientID, ClientID: "client-1", Name: "Living Room TV"}, nil).
			Once()

		c, w := createFormContext(t, http.MethodGet, "/oauth/device?user_code=WDJB-MJHT", nil)

		handler.LookupHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeviceVerificationResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "WDJB-MJHT", response.UserCode)
		assert.Equal(t, "Living Room TV", response.ClientName)
		assert.Equal(t, "profile email", response.Scope)
		assert.Equal(t, "pending", response.Status)

		mockDeviceFlow.AssertExpectations(t)
		mockClientRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownCode", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		mockDeviceFlow.On("LookupUserCode", mock.Anything, "WDJB-MJHT").
			Return(nil, oauthDomain.ErrDeviceCodeNotFound).
			Once()

		c, w := createFormContext(t, http.MethodGet, "/oauth/device?user_code=WDJB-MJHT", nil)

		handler.LookupHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "not_found", response["error"])

		mockDeviceFlow.AssertExpectations(t)
	})

	t.Run("Error_MissingUserCode", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		c, w := createFormContext(t, http.MethodGet, "/oauth/device", nil)

		handler.LookupHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])

		mockDeviceFlow.AssertNotCalled(t, "LookupUserCode", mock.Anything, mock.Anything)
	})

	t.Run("Error_IllegalUserCodeCharacters", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		c, w := createFormContext(t, http.MethodGet, "/oauth/device?user_code=%3Bscript%3B", nil)

		handler.LookupHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		mockDeviceFlow.AssertNotCalled(t, "LookupUserCode", mock.Anything, mock.Anything)
	})
}

func TestDeviceVerificationHandler_DecisionHandler(t *testing.T) {
	t.Run("Success_Approve", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		mockDeviceFlow.On("CompleteDeviceAuthorization", mock.Anything, "WDJB-MJHT", "user-42", true).
			Return(nil).
			Once()

		form := url.Values{}
		form.Set("user_code", "WDJB-MJHT")
		form.Set("action", "approve")
		form.Set("user_identifier", "user-42")

		c, w := createFormContext(t, http.MethodPost, "/oauth/device", form)

		handler.DecisionHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeviceDecisionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "WDJB-MJHT", response.UserCode)
		assert.Equal(t, "approved", response.Status)

		mockDeviceFlow.AssertExpectations(t)
	})

	t.Run("Success_Deny", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		mockDeviceFlow.On("CompleteDeviceAuthorization", mock.Anything, "WDJB-MJHT", "", false).
			Return(nil).
			Once()

		form := url.Values{}
		form.Set("user_code", "WDJB-MJHT")
		form.Set("action", "deny")

		c, w := createFormContext(t, http.MethodPost, "/oauth/device", form)

		handler.DecisionHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeviceDecisionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "denied", response.Status)

		mockDeviceFlow.AssertExpectations(t)
	})

	t.Run("Error_ApproveWithoutIdentifier", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		form := url.Values{}
		form.Set("user_code", "WDJB-MJHT")
		form.Set("action", "approve")

		c, w := createFormContext(t, http.MethodPost, "/oauth/device", form)

		handler.DecisionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		mockDeviceFlow.AssertNotCalled(t, "CompleteDeviceAuthorization",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidAction", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		form := url.Values{}
		form.Set("user_code", "WDJB-MJHT")
		form.Set("action", "maybe")

		c, w := createFormContext(t, http.MethodPost, "/oauth/device", form)

		handler.DecisionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		mockDeviceFlow.AssertNotCalled(t, "CompleteDeviceAuthorization",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_AlreadyResolved", func(t *testing.T) {
		handler, mockDeviceFlow, _ := setupVerificationTestHandler(t)

		mockDeviceFlow.On("CompleteDeviceAuthorization", mock.Anything, "WDJB-MJHT", "user-42", true).
			Return(oauthDomain.ErrDeviceCodeNotFound).
			Once()

		form := url.Values{}
		form.Set("user_code", "WDJB-MJHT")
		form.Set("action", "approve")
		form.Set("user_identifier", "user-42")

		c, w := createFormContext(t, http.MethodPost, "/oauth/device", form)

		handler.DecisionHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockDeviceFlow.AssertExpectations(t)
	})
}
