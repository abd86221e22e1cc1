package domain

import (
	"github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
)

// Storage-level errors.
var (
	// ErrClientNotFound indicates a client with the specified ID was not found.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrDeviceCodeNotFound indicates a device code lookup missed.
	ErrDeviceCodeNotFound = errors.Wrap(errors.ErrNotFound, "device code not found")

	// ErrTokenNotFound indicates a token with the specified hash was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrUserCodeTaken indicates a generated user code collided with an
	// active one. The storage unique constraint is the authoritative guard.
	ErrUserCodeTaken = errors.Wrap(errors.ErrConflict, "user code already active")

	// ErrInvalidCredentials indicates client authentication failed. The same
	// error is returned for unknown clients and wrong secrets to prevent
	// enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)

// OAuth error codes surfaced to clients (RFC 6749 section 5.2,
// RFC 8628 section 3.5).
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeAuthorizationPending = "authorization_pending"
	ErrorCodeSlowDown             = "slow_down"
	ErrorCodeExpiredToken         = "expired_token"
	ErrorCodeAccessDenied         = "access_denied"
)

// ProtocolError is an OAuth protocol outcome carried as a value. It is
// returned by use cases for expected flow states and client mistakes so the
// HTTP layer can render the RFC error body; it is never used for
// infrastructure failures.
type ProtocolError struct {
	// Code is the RFC error code sent on the wire.
	Code string
	// Description is safe to return to clients. Internal detail stays in logs.
	Description string
}

func (e *ProtocolError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// NewProtocolError builds a ProtocolError with the given RFC code and
// client-safe description.
func NewProtocolError(code, description string) *ProtocolError {
	return &ProtocolError{Code: code, Description: description}
}

// Flow-state errors of the device grant. These are expected, retryable
// outcomes rather than failures.
var (
	ErrAuthorizationPending = NewProtocolError(ErrorCodeAuthorizationPending, "user has not yet completed authorization")
	ErrSlowDown             = NewProtocolError(ErrorCodeSlowDown, "polling too frequently")
	ErrExpiredDeviceCode    = NewProtocolError(ErrorCodeExpiredToken, "device code has expired")
	ErrAccessDenied         = NewProtocolError(ErrorCodeAccessDenied, "user denied the authorization request")
	ErrInvalidDeviceCode    = NewProtocolError(ErrorCodeInvalidGrant, "invalid device code")
)
