package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/oauth/token",
		TokenRateLimitMiddleware(rps, burst, testLogger()),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

	return router
}

func performTokenRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenRateLimitMiddleware(t *testing.T) {
	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := setupRateLimitedRouter(t, 1, 2)

		for i := 0; i < 2; i++ {
			w := performTokenRequest(router, "10.0.0.1:12345")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("RejectsBeyondBurst", func(t *testing.T) {
		router := setupRateLimitedRouter(t, 0.1, 1)

		first := performTokenRequest(router, "10.0.0.2:12345")
		assert.Equal(t, http.StatusOK, first.Code)

		second := performTokenRequest(router, "10.0.0.2:12345")
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))

		var response map[string]interface{}
		err := json.Unmarshal(second.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "slow_down", response["error"])
	})

	t.Run("LimitsPerIPIndependently", func(t *testing.T) {
		router := setupRateLimitedRouter(t, 0.1, 1)

		first := performTokenRequest(router, "10.0.0.3:12345")
		assert.Equal(t, http.StatusOK, first.Code)

		exhausted := performTokenRequest(router, "10.0.0.3:12345")
		assert.Equal(t, http.StatusTooManyRequests, exhausted.Code)

		other := performTokenRequest(router, "10.0.0.4:12345")
		assert.Equal(t, http.StatusOK, other.Code)
	})
}
