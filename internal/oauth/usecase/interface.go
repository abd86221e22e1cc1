// Package usecase defines business logic interfaces for the OAuth security
// core: PKCE validation, the device authorization grant, token revocation,
// and token introspection.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// ClientRepository defines read operations for OAuth clients. Clients are
// registered by an external subsystem; the core only consults them.
type ClientRepository interface {
	// Create stores a new client. Exposed for operator tooling and tests;
	// the protocol core itself never registers clients.
	Create(ctx context.Context, client *oauthDomain.Client) error

	// Get retrieves a client by ID. Returns ErrClientNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*oauthDomain.Client, error)

	// GetByClientID retrieves a client by its wire client_id.
	// Returns ErrClientNotFound if not found.
	GetByClientID(ctx context.Context, clientID string) (*oauthDomain.Client, error)
}

// DeviceCodeRepository defines persistence operations for device codes.
// The conditional operations (TouchLastPolled, Consume) are the storage-level
// mutual exclusion primitives the poll path relies on: each must be a single
// atomic compare-and-act so concurrent pollers cannot both pass a check.
type DeviceCodeRepository interface {
	// Create stores a new device code. Returns ErrUserCodeTaken when the
	// user code collides with an active one (unique constraint).
	Create(ctx context.Context, code *oauthDomain.DeviceCode) error

	// GetByDeviceCode retrieves a device code by its opaque device_code
	// value. Returns ErrDeviceCodeNotFound if absent.
	GetByDeviceCode(ctx context.Context, deviceCode string) (*oauthDomain.DeviceCode, error)

	// GetByUserCode retrieves an unexpired device code by its normalized
	// user code. Returns ErrDeviceCodeNotFound if absent or expired.
	GetByUserCode(ctx context.Context, userCode string, now time.Time) (*oauthDomain.DeviceCode, error)

	// TouchLastPolled atomically sets last_polled_at to now if the previous
	// poll was at least minInterval ago (or never happened). Returns false
	// when the device is polling too fast; the timestamp still advances on
	// success only.
	TouchLastPolled(ctx context.Context, deviceCode string, now time.Time, minInterval time.Duration) (bool, error)

	// SetApproval records the user's decision while the code is pending.
	// Returns ErrDeviceCodeNotFound when the code is absent or already
	// resolved.
	SetApproval(ctx context.Context, deviceCode string, approved bool, userIdentifier *string) error

	// Consume atomically deletes an approved device code and reports whether
	// this caller performed the deletion. At most one concurrent caller
	// observes true for a given code.
	Consume(ctx context.Context, deviceCode string) (bool, error)

	// Delete removes a device code unconditionally (used for denied codes).
	Delete(ctx context.Context, deviceCode string) error

	// DeleteExpired removes codes whose expiry predates now, regardless of
	// state. Returns the number of codes removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteResolvedBefore removes approved or denied codes created before
	// the cutoff. Returns the number of codes removed.
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CountResolvedBefore counts the codes DeleteResolvedBefore would remove
	// (dry-run support).
	CountResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Stats returns counts of active, authorized, and expired codes.
	Stats(ctx context.Context, now time.Time) (*oauthDomain.DeviceCodeStats, error)
}

// TokenRepository defines persistence operations for issued tokens.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *oauthDomain.Token) error

	// GetByHashAndType retrieves a token by hash and type (access or
	// refresh). Returns ErrTokenNotFound if absent.
	GetByHashAndType(ctx context.Context, tokenHash, tokenType string) (*oauthDomain.Token, error)

	// Revoke marks the token revoked at the given time. Idempotent: revoking
	// an already-revoked token keeps the original revocation time.
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}

// PkceUseCase validates PKCE parameters and decides the enforcement level.
type PkceUseCase interface {
	// ValidatePkceParameters checks the supplied PKCE parameters against the
	// rule set applicable to the client (standard or enhanced). Outcomes are
	// reported in the result, never raised; only infrastructure failures
	// return an error.
	ValidatePkceParameters(
		ctx context.Context,
		input *ValidatePkceInput,
	) (*oauthDomain.ValidationResult, error)

	// ClientRequiresEnhancedPkce reports whether the native-client rule set
	// applies to the given client.
	ClientRequiresEnhancedPkce(client *oauthDomain.Client) bool
}

// DeviceFlowUseCase drives the RFC 8628 device authorization grant.
type DeviceFlowUseCase interface {
	// RequestDeviceAuthorization validates the client and issues a new
	// device/user code pair.
	RequestDeviceAuthorization(
		ctx context.Context,
		clientID string,
		scopes []string,
	) (*oauthDomain.DeviceAuthorizationOutput, error)

	// PollToken is the token endpoint operation for the device grant. It
	// returns a token once the user approves, or a *ProtocolError describing
	// the current flow state (authorization_pending, slow_down,
	// expired_token, access_denied, invalid_grant).
	PollToken(ctx context.Context, deviceCode string) (*oauthDomain.TokenOutput, error)

	// CompleteDeviceAuthorization records the user's decision for the code
	// identified by the (unnormalized) user code.
	CompleteDeviceAuthorization(ctx context.Context, userCode, userIdentifier string, approve bool) error

	// LookupUserCode retrieves the pending request for a user code so a
	// verification UI can show what the user is approving.
	LookupUserCode(ctx context.Context, userCode string) (*oauthDomain.DeviceCode, error)

	// CleanupExpired deletes all expired codes. With dryRun, reports the
	// count without deleting.
	CleanupExpired(ctx context.Context, dryRun bool) (int64, error)

	// CleanupResolved deletes approved/denied codes older than the retention
	// window. With dryRun, reports the count without deleting.
	CleanupResolved(ctx context.Context, retentionDays int, dryRun bool) (int64, error)

	// Stats returns operational counts of device codes by state.
	Stats(ctx context.Context) (*oauthDomain.DeviceCodeStats, error)
}

// RevocationUseCase implements RFC 7009 token revocation.
type RevocationUseCase interface {
	// Revoke invalidates the token identified by its plain value. Returns
	// true when the token is revoked or never existed (privacy: existence is
	// not revealed), false when the token belongs to another client and
	// bypassOwnership is not set. Errors indicate infrastructure failures
	// only.
	Revoke(ctx context.Context, tokenValue string, clientID uuid.UUID, bypassOwnership bool) (bool, error)
}

// IntrospectionUseCase implements RFC 7662 token introspection.
type IntrospectionUseCase interface {
	// Introspect returns the token's metadata when the requester owns it or
	// holds bypass permission and the token is live; otherwise the uniform
	// inactive response. Errors indicate infrastructure failures only.
	Introspect(
		ctx context.Context,
		tokenValue string,
		requester *Requester,
	) (*oauthDomain.IntrospectionResponse, error)
}

// ValidatePkceInput carries the PKCE parameters present in the current
// request phase: an authorization request supplies challenge and method, a
// token request supplies the verifier.
type ValidatePkceInput struct {
	Client              *oauthDomain.Client
	CodeChallenge       string
	CodeChallengeMethod string
	CodeVerifier        string
}

// Requester identifies the authenticated caller of introspection.
type Requester struct {
	// ClientID is the authenticated client.
	ClientID uuid.UUID
	// BypassOwnership grants visibility into tokens the caller does not own
	// (resource-server style access).
	BypassOwnership bool
}
