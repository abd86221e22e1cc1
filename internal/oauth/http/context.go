// Package http provides HTTP handlers and middleware for the OAuth
// protocol endpoints: device authorization, token, revocation, and
// introspection.
package http

import (
	"context"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// clientKey is a context key type for storing authenticated clients.
type clientKey struct{}

// WithClient stores an authenticated OAuth client in the context.
// This is typically called by ClientAuthMiddleware after successful
// client authentication.
func WithClient(ctx context.Context, client *oauthDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient retrieves the authenticated OAuth client from the context.
// Returns (client, true) if a client is present, or (nil, false) if no
// client was set.
func GetClient(ctx context.Context) (*oauthDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*oauthDomain.Client)
	return client, ok
}
