// Package service provides technical services for the OAuth security core:
// token and device code generation, token hashing, client secret hashing,
// and user code generation for the device authorization grant.
package service

// SecretService defines operations for client secret generation and validation.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (to be shared with the client) and
	// the hashed version (to be stored in the database).
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret using a secure hashing algorithm.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService defines operations for token and device code generation and
// hashing. Token values are hashed with SHA-256 before storage; revocation
// and introspection apply the same transform to look tokens up, so the hash
// function is a contract shared with the token store.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (shown once to the client) and the
	// hashed version (stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// GenerateDeviceCode creates an opaque device code with UUID-grade
	// entropy for the device authorization grant.
	GenerateDeviceCode() (string, error)

	// HashToken hashes a plain text token using SHA-256.
	HashToken(plainToken string) string
}

// UserCodeGenerator produces and normalizes the human-readable codes of the
// device authorization grant (RFC 8628 section 6.1).
type UserCodeGenerator interface {
	// Generate returns a formatted user code (e.g. XXXX-XXXX) drawn from the
	// configured low-ambiguity charset.
	Generate() (string, error)

	// Normalize canonicalizes user input for lookup: strips spaces and
	// hyphens and uppercases.
	Normalize(userCode string) string
}
