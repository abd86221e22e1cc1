// Package usecase implements the business logic of the OAuth security core.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/config"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// pkceUseCase implements PkceUseCase. It selects the rule set from the
// client classification and reports all findings in a ValidationResult;
// the caller maps invalid results to invalid_request (authorization time)
// or invalid_grant (token time).
type pkceUseCase struct {
	config *config.Config
	logger *slog.Logger
}

// ClientRequiresEnhancedPkce reports whether the native-client rule set
// applies: the client classifies as native and the enhanced policy has not
// been disabled globally.
func (p *pkceUseCase) ClientRequiresEnhancedPkce(client *oauthDomain.Client) bool {
	if !p.config.EnhancedPKCEEnabled {
		return false
	}
	return oauthDomain.ClassifyClient(client.RedirectURIs, client.IsConfidential) == oauthDomain.ClientKindNative
}

// ValidatePkceParameters validates the PKCE parameters present in the
// current request phase.
//
// Standard validation (web clients): format checks on whichever of
// challenge/verifier is supplied, method membership in {S256, plain}, and
// the challenge/verifier pairing when all three values are present.
//
// Enhanced validation (native clients) additionally makes PKCE parameters
// mandatory, enforces the configured challenge method, and applies the
// entropy floor to verifiers. The plain method is rejected outright for
// native clients unless method enforcement is configured off, in which case
// it is accepted with a warning.
func (p *pkceUseCase) ValidatePkceParameters(
	ctx context.Context,
	input *ValidatePkceInput,
) (*oauthDomain.ValidationResult, error) {
	result := &oauthDomain.ValidationResult{Valid: true}

	enhanced := p.ClientRequiresEnhancedPkce(input.Client)
	result.EnhancedApplied = enhanced

	if enhanced {
		p.validateEnhanced(input, result)
	} else {
		p.validateStandard(input, result)
	}

	// Pairing check applies whenever all three values are available
	// (token-time validation with the stored challenge).
	if result.Valid && input.CodeChallenge != "" && input.CodeVerifier != "" && input.CodeChallengeMethod != "" {
		if !oauthDomain.VerifyChallenge(input.CodeChallenge, input.CodeChallengeMethod, input.CodeVerifier) {
			result.AddError("code_verifier does not match code_challenge")
		}
	}

	if !result.Valid {
		// Full context server-side; the client only sees the generic RFC code.
		p.logger.Warn("pkce validation failed",
			slog.String("client_id", input.Client.ClientID),
			slog.Bool("enhanced", enhanced),
			slog.Any("errors", result.Errors),
		)
	}

	return result, nil
}

// validateStandard applies the baseline RFC 7636 format rules.
func (p *pkceUseCase) validateStandard(input *ValidatePkceInput, result *oauthDomain.ValidationResult) {
	if input.CodeChallengeMethod != "" &&
		input.CodeChallengeMethod != oauthDomain.PKCEMethodS256 &&
		input.CodeChallengeMethod != oauthDomain.PKCEMethodPlain {
		result.AddError(fmt.Sprintf("unsupported code_challenge_method: %s", input.CodeChallengeMethod))
	}

	if input.CodeChallenge != "" && !oauthDomain.ValidVerifierFormat(input.CodeChallenge) {
		result.AddError("code_challenge must be 43-128 characters from [A-Za-z0-9-._~]")
	}

	if input.CodeVerifier != "" && !oauthDomain.ValidVerifierFormat(input.CodeVerifier) {
		result.AddError("code_verifier must be 43-128 characters from [A-Za-z0-9-._~]")
	}
}

// validateEnhanced applies the native-client rules on top of the format
// rules: mandatory parameters, method enforcement, and the entropy floor.
func (p *pkceUseCase) validateEnhanced(input *ValidatePkceInput, result *oauthDomain.ValidationResult) {
	if input.CodeChallenge == "" && input.CodeVerifier == "" {
		result.AddError("PKCE parameters are mandatory for native clients")
		return
	}

	if input.CodeChallengeMethod != "" {
		p.validateEnforcedMethod(input.CodeChallengeMethod, result)
	}

	if input.CodeChallenge != "" && !oauthDomain.ValidVerifierFormat(input.CodeChallenge) {
		result.AddError("code_challenge must be 43-128 characters from [A-Za-z0-9-._~]")
	}

	if input.CodeVerifier != "" {
		if !oauthDomain.ValidVerifierFormat(input.CodeVerifier) {
			result.AddError("code_verifier must be 43-128 characters from [A-Za-z0-9-._~]")
		} else if bits := oauthDomain.ShannonEntropyBits(input.CodeVerifier); bits < p.config.MinVerifierEntropyBits {
			result.AddError(fmt.Sprintf(
				"code_verifier entropy %.1f bits is below the required %.0f bits",
				bits, p.config.MinVerifierEntropyBits,
			))
		}
	}
}

// validateEnforcedMethod checks the challenge method against the configured
// enforcement policy for native clients.
func (p *pkceUseCase) validateEnforcedMethod(method string, result *oauthDomain.ValidationResult) {
	if method != oauthDomain.PKCEMethodS256 && method != oauthDomain.PKCEMethodPlain {
		result.AddError(fmt.Sprintf("unsupported code_challenge_method: %s", method))
		return
	}

	enforced := p.config.EnforcedPKCEMethod
	if enforced != oauthDomain.PKCEMethodOff && method != enforced {
		result.AddError(fmt.Sprintf(
			"code_challenge_method %s is not allowed for native clients (required: %s)",
			method, enforced,
		))
		return
	}

	if method == oauthDomain.PKCEMethodPlain {
		result.AddWarning("plain code_challenge_method offers no protection against interception; use S256")
	}
}

// NewPkceUseCase creates a new PkceUseCase with the provided dependencies.
func NewPkceUseCase(cfg *config.Config, logger *slog.Logger) PkceUseCase {
	return &pkceUseCase{
		config: cfg,
		logger: logger,
	}
}
