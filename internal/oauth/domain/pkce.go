package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"math"
)

// ValidationResult carries the outcome of PKCE parameter validation.
// Failures are reported, never thrown: the HTTP layer maps Valid=false to
// the RFC-appropriate error code for the request phase.
type ValidationResult struct {
	Valid bool
	// Errors are client-safe descriptions of each failed check.
	Errors []string
	// Warnings note accepted-but-discouraged input (e.g. the plain method).
	Warnings []string
	// EnhancedApplied records whether the native-client rule set was used.
	EnhancedApplied bool
}

// AddError appends a failure and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a non-fatal observation.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ValidVerifierFormat reports whether s satisfies the RFC 7636 code_verifier
// grammar: 43-128 characters from the unreserved set [A-Za-z0-9-._~]. The
// same rule applies to code challenges.
func ValidVerifierFormat(s string) bool {
	if len(s) < MinVerifierLength || len(s) > MaxVerifierLength {
		return false
	}
	for _, ch := range s {
		isValid := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '~'
		if !isValid {
			return false
		}
	}
	return true
}

// ShannonEntropyBits estimates the total entropy of s in bits: the Shannon
// entropy of its character distribution multiplied by its length. Used to
// reject low-entropy verifiers (e.g. a repeated character) that pass the
// format check.
func ShannonEntropyBits(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	for _, ch := range s {
		freq[ch]++
	}

	length := float64(len([]rune(s)))
	var perChar float64
	for _, count := range freq {
		p := float64(count) / length
		perChar -= p * math.Log2(p)
	}

	return perChar * length
}

// ComputeS256Challenge derives the S256 code challenge from a verifier:
// base64url without padding of the SHA-256 digest (RFC 7636 section 4.2).
func ComputeS256Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// VerifyChallenge recomputes the expected challenge from the verifier using
// the given method and compares it with the presented challenge in constant
// time. Returns false for unknown methods.
func VerifyChallenge(challenge, method, verifier string) bool {
	var expected string

	switch method {
	case PKCEMethodS256:
		expected = ComputeS256Challenge(verifier)
	case PKCEMethodPlain:
		expected = verifier
	default:
		return false
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(challenge)) == 1
}
