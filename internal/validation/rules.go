// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
)

var (
	// codeVerifierRegex is the RFC 7636 unreserved character set.
	codeVerifierRegex = regexp.MustCompile(`^[A-Za-z0-9\-._~]{43,128}$`)

	// userCodeRegex accepts user-typed codes before normalization:
	// letters and digits, optionally grouped with hyphens or spaces.
	userCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]+([ -][A-Za-z0-9]+)*$`)

	// scopeTokenRegex is the RFC 6749 section 3.3 scope-token charset.
	scopeTokenRegex = regexp.MustCompile(`^[\x21\x23-\x5B\x5D-\x7E]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CodeVerifier validates the RFC 7636 code_verifier/code_challenge format:
// 43 to 128 characters from the unreserved set.
var CodeVerifier = validation.NewStringRuleWithError(
	codeVerifierRegex.MatchString,
	validation.NewError(
		"validation_code_verifier",
		"must be 43-128 characters from [A-Za-z0-9-._~]",
	),
)

// UserCode validates user-typed device codes before normalization.
var UserCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return len(s) <= 64 && userCodeRegex.MatchString(s)
	},
	validation.NewError(
		"validation_user_code",
		"must contain only letters, digits, and separators",
	),
)

// Scope validates a space-delimited OAuth scope string.
var Scope = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, token := range strings.Fields(s) {
			if !scopeTokenRegex.MatchString(token) {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_scope", "must be a space-delimited list of scope tokens"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
