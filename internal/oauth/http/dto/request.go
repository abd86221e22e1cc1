// Package dto provides data transfer objects for the OAuth protocol
// endpoints. Requests arrive as application/x-www-form-urlencoded per
// RFC 6749 section 4; fields carry form tags for gin binding.
package dto

import (
	validation "github.com/jellydator/validation"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	customValidation "github.com/e0ipso/simple-oauth-21-sub003/internal/validation"
)

// DeviceAuthorizationRequest contains the parameters of an RFC 8628
// section 3.1 device authorization request. The PKCE parameters are
// optional; when present they are validated against the client's rule set.
type DeviceAuthorizationRequest struct {
	ClientID            string `form:"client_id"`
	Scope               string `form:"scope"`
	CodeChallenge       string `form:"code_challenge"`
	CodeChallengeMethod string `form:"code_challenge_method"`
}

// Validate checks if the device authorization request is valid.
func (r *DeviceAuthorizationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Scope,
			customValidation.Scope,
		),
		validation.Field(&r.CodeChallenge,
			customValidation.CodeVerifier,
		),
		validation.Field(&r.CodeChallengeMethod,
			validation.In(oauthDomain.PKCEMethodS256, oauthDomain.PKCEMethodPlain),
		),
	)
}

// TokenRequest contains the parameters of a token endpoint request for the
// device authorization grant (RFC 8628 section 3.4).
type TokenRequest struct {
	GrantType  string `form:"grant_type"`
	DeviceCode string `form:"device_code"`
	ClientID   string `form:"client_id"`
}

// Validate checks if the token request is valid. Grant type support is
// decided by the handler so it can answer with unsupported_grant_type.
func (r *TokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GrantType,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.DeviceCode,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// RevocationRequest contains the parameters of an RFC 7009 revocation
// request. The token_type_hint is accepted but not required; the lookup
// always covers both token types.
type RevocationRequest struct {
	Token         string `form:"token"`
	TokenTypeHint string `form:"token_type_hint"`
}

// Validate checks if the revocation request is valid.
func (r *RevocationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.TokenTypeHint,
			validation.In("access_token", "refresh_token"),
		),
	)
}

// IntrospectionRequest contains the parameters of an RFC 7662
// introspection request.
type IntrospectionRequest struct {
	Token         string `form:"token"`
	TokenTypeHint string `form:"token_type_hint"`
}

// Validate checks if the introspection request is valid.
func (r *IntrospectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.TokenTypeHint,
			validation.In("access_token", "refresh_token"),
		),
	)
}

// DeviceVerificationRequest contains the resource owner's decision on a
// pending device authorization, submitted through the verification form.
type DeviceVerificationRequest struct {
	UserCode       string `form:"user_code"`
	Action         string `form:"action"`
	UserIdentifier string `form:"user_identifier"`
}

// Validate checks if the device verification request is valid. A user
// identifier is required when approving so the grant records who approved.
func (r *DeviceVerificationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserCode,
			validation.Required,
			customValidation.UserCode,
		),
		validation.Field(&r.Action,
			validation.Required,
			validation.In("approve", "deny"),
		),
		validation.Field(&r.UserIdentifier,
			validation.When(r.Action == "approve", validation.Required, customValidation.NotBlank),
			validation.Length(0, 255),
		),
	)
}
