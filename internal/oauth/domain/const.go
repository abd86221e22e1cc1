package domain

// PKCE challenge methods (RFC 7636).
const (
	PKCEMethodS256  = "S256"
	PKCEMethodPlain = "plain"
	// PKCEMethodOff disables method enforcement in configuration. It is never
	// a valid value on the wire.
	PKCEMethodOff = "off"
)

// Code verifier and challenge length bounds (RFC 7636 section 4.1).
const (
	MinVerifierLength = 43
	MaxVerifierLength = 128
)

// DeviceCodeGrantType is the grant_type value for device authorization
// grant token requests (RFC 8628 section 3.4).
const DeviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

// DefaultUserCodeCharset excludes visually ambiguous characters
// (0, O, 1, I, l) per RFC 8628 section 6.1 usability guidance.
const DefaultUserCodeCharset = "BCDFGHJKLMNPQRSTVWXYZ23456789"

// UserCodeChunkSize is how many characters appear between hyphen
// separators in a formatted user code (e.g. XXXX-XXXX).
const UserCodeChunkSize = 4

// Token types stored alongside token hashes.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
