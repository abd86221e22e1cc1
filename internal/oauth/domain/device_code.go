package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeviceCodeStatus enumerates device authorization states (RFC 8628).
type DeviceCodeStatus string

const (
	// DeviceCodeStatusPending means the user has not yet approved or denied.
	DeviceCodeStatusPending DeviceCodeStatus = "pending"
	// DeviceCodeStatusApproved means the user approved the request.
	DeviceCodeStatusApproved DeviceCodeStatus = "approved"
	// DeviceCodeStatusDenied means the user denied the request.
	DeviceCodeStatusDenied DeviceCodeStatus = "denied"
	// DeviceCodeStatusExpired means the code passed its expiry, whatever the
	// prior state.
	DeviceCodeStatusExpired DeviceCodeStatus = "expired"
)

// DeviceCode tracks one device authorization grant attempt from issuance
// until it is exchanged, denied, or swept. The device polls with DeviceCode;
// the user enters UserCode on a secondary device.
type DeviceCode struct {
	ID           uuid.UUID // Unique identifier (UUIDv7)
	DeviceCode   string    // Opaque secret the device polls with
	UserCode     string    // Human-readable code, unique among active codes
	ClientID     uuid.UUID
	Scopes       []string
	ExpiresAt    time.Time
	Interval     time.Duration // Minimum time between polls
	LastPolledAt *time.Time
	// UserApproved is nil while pending, then records the user's decision.
	UserApproved *bool
	// UserIdentifier is the approving resource owner, set on approval.
	UserIdentifier *string
	CreatedAt      time.Time
}

// Expired reports whether the code is past its expiry at the given time.
func (d *DeviceCode) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// Resolved reports whether the user has approved or denied the request.
// A resolved code admits exactly one token exchange.
func (d *DeviceCode) Resolved() bool {
	return d.UserApproved != nil
}

// Status derives the lifecycle state at the given time. Expiry dominates:
// an approved-but-stale code is expired.
func (d *DeviceCode) Status(now time.Time) DeviceCodeStatus {
	if d.Expired(now) {
		return DeviceCodeStatusExpired
	}
	switch {
	case d.UserApproved == nil:
		return DeviceCodeStatusPending
	case *d.UserApproved:
		return DeviceCodeStatusApproved
	default:
		return DeviceCodeStatusDenied
	}
}

// DeviceAuthorizationOutput is the RFC 8628 section 3.2 response returned
// when a device code pair is issued.
type DeviceAuthorizationOutput struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete"`
	ExpiresIn               int    `json:"expires_in"`
	Interval                int    `json:"interval"`
}

// TokenOutput is the token response issued when an approved device code is
// exchanged (RFC 8628 section 3.5, RFC 6749 section 5.1).
type TokenOutput struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// DeviceCodeStats exposes operational counts of device codes by state.
type DeviceCodeStats struct {
	Active     int64 `json:"active"`
	Authorized int64 `json:"authorized"`
	Expired    int64 `json:"expired"`
}
