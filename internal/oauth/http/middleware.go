package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/httputil"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// errInvalidClient is the uniform client authentication failure. Unknown
// client_id, wrong secret, and inactive clients are indistinguishable on
// the wire to prevent enumeration (RFC 6749 section 5.2).
var errInvalidClient = oauthDomain.NewProtocolError(
	oauthDomain.ErrorCodeInvalidClient,
	"client authentication failed",
)

// ClientAuthMiddleware authenticates the OAuth client calling a protected
// protocol endpoint (token, revocation, introspection).
//
// Credentials are accepted the two ways RFC 6749 section 2.3.1 defines:
// HTTP Basic authentication, or client_id/client_secret form parameters.
// Confidential clients must present their secret; public clients
// authenticate by client_id alone and are rejected if they send a secret.
//
// On success the client is stored in the request context for handlers to
// read via GetClient. On failure the response is always 401 invalid_client.
func ClientAuthMiddleware(
	clientRepo oauthUseCase.ClientRepository,
	secretService oauthService.SecretService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, clientSecret, ok := c.Request.BasicAuth()
		if !ok {
			clientID = c.PostForm("client_id")
			clientSecret = c.PostForm("client_secret")
		}

		if clientID == "" {
			logger.Debug("client authentication failed: missing client_id")
			rejectClient(c, logger)
			return
		}

		client, err := clientRepo.GetByClientID(c.Request.Context(), clientID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				logger.Debug("client authentication failed: unknown client",
					slog.String("client_id", clientID))
				rejectClient(c, logger)
				return
			}
			httputil.HandleOAuthErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !client.IsActive {
			logger.Debug("client authentication failed: inactive client",
				slog.String("client_id", clientID))
			rejectClient(c, logger)
			return
		}

		if client.IsConfidential {
			if clientSecret == "" || !secretService.CompareSecret(clientSecret, client.Secret) {
				logger.Debug("client authentication failed: secret mismatch",
					slog.String("client_id", clientID))
				rejectClient(c, logger)
				return
			}
		} else if clientSecret != "" {
			// A public client has no secret on file; presenting one is a
			// misconfigured or impersonating caller.
			logger.Debug("client authentication failed: unexpected secret from public client",
				slog.String("client_id", clientID))
			rejectClient(c, logger)
			return
		}

		ctx := WithClient(c.Request.Context(), client)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("client authentication successful",
			slog.String("client_id", client.ClientID),
			slog.String("client_name", client.Name))

		c.Next()
	}
}

// rejectClient writes the uniform invalid_client response and stops the
// chain. The WWW-Authenticate header is required by RFC 6749 when the
// client attempted (or should attempt) Basic authentication.
func rejectClient(c *gin.Context, logger *slog.Logger) {
	c.Header("WWW-Authenticate", `Basic realm="oauth"`)
	httputil.HandleOAuthErrorGin(c, errInvalidClient, logger)
	c.Abort()
}
