package http

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// createFormContext builds a gin test context carrying a form-encoded
// request body, the content type of the OAuth protocol endpoints.
func createFormContext(t *testing.T, method, path string, form url.Values) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	c.Request = req

	return c, w
}

// authenticatedClient registers a client in the request context the way
// ClientAuthMiddleware does and returns it.
func authenticatedClient(c *gin.Context, clientID string) *oauthDomain.Client {
	client := &oauthDomain.Client{
		ID:       uuid.Must(uuid.NewV7()),
		ClientID: clientID,
		Name:     "Test Client",
		IsActive: true,
	}
	c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
	return client
}

// testLogger returns a logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
