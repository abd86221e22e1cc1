// Package domain defines the OAuth protocol entities and the security rules
// that operate on them: client classification (RFC 8252), PKCE validation
// primitives (RFC 7636), the device authorization grant entity (RFC 8628),
// and token metadata used by revocation and introspection (RFC 7009/7662).
package domain

import (
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client represents an OAuth client consulted by the security core. Clients
// are registered and managed by an external subsystem; the core reads them
// to classify requests and authenticate protected endpoints.
type Client struct {
	ID             uuid.UUID // Unique identifier (UUIDv7)
	ClientID       string    // Opaque client_id presented on the wire
	Secret         string    //nolint:gosec // hashed client secret (not plaintext)
	Name           string    // Human-readable client name
	IsConfidential bool      // Whether the client can keep a secret
	RedirectURIs   []string
	GrantTypes     []string
	IsActive       bool
	CreatedAt      time.Time
}

// HasGrantType reports whether the client is registered for the given grant.
func (c *Client) HasGrantType(grantType string) bool {
	return slices.Contains(c.GrantTypes, grantType)
}

// ClientKind classifies a client for PKCE enforcement purposes.
type ClientKind int

const (
	// ClientKindUnknown means the registration data is insufficient to
	// classify the client (e.g. no redirect URIs).
	ClientKindUnknown ClientKind = iota
	// ClientKindWeb is a confidential or browser-based client.
	ClientKindWeb
	// ClientKindNative is a public client on a user-controlled device
	// (mobile, desktop, CLI) per RFC 8252, subject to enhanced PKCE rules.
	ClientKindNative
)

// String returns the classification name for logging.
func (k ClientKind) String() string {
	switch k {
	case ClientKindWeb:
		return "web"
	case ClientKindNative:
		return "native"
	default:
		return "unknown"
	}
}

// ClassifyClient decides whether a client is native or web from its
// registration data alone. A client is native when it is public (no secret)
// and at least one redirect URI targets a custom scheme or a loopback
// address, the two redirect mechanisms RFC 8252 defines for native apps.
func ClassifyClient(redirectURIs []string, isConfidential bool) ClientKind {
	if isConfidential {
		return ClientKindWeb
	}

	if len(redirectURIs) == 0 {
		return ClientKindUnknown
	}

	for _, raw := range redirectURIs {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" {
			continue
		}

		scheme := strings.ToLower(parsed.Scheme)
		if scheme != "http" && scheme != "https" {
			// Custom scheme (com.example.app:/callback)
			return ClientKindNative
		}

		if isLoopbackHost(parsed.Hostname()) {
			return ClientKindNative
		}
	}

	return ClientKindWeb
}

// isLoopbackHost reports whether the host is a loopback address
// (localhost, 127.0.0.0/8, ::1) per RFC 8252 section 7.3.
func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
