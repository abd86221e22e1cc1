package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/config"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/database"
	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
)

// userCodeMaxAttempts bounds the generate-and-insert retry loop. Exhausting
// it signals a charset/length misconfiguration (the code space is too small
// for the number of active codes), which is an operator problem, not a
// client one.
const userCodeMaxAttempts = 10

// deviceFlowUseCase implements DeviceFlowUseCase. Flow-state outcomes
// (authorization_pending, slow_down, expired_token, access_denied) are
// returned as *oauthDomain.ProtocolError values; real errors indicate
// infrastructure failures.
type deviceFlowUseCase struct {
	config         *config.Config
	txManager      database.TxManager
	clientRepo     ClientRepository
	deviceCodeRepo DeviceCodeRepository
	tokenRepo      TokenRepository
	tokenService   oauthService.TokenService
	userCodeGen    oauthService.UserCodeGenerator
	logger         *slog.Logger
}

// RequestDeviceAuthorization validates the client and issues a device/user
// code pair per RFC 8628 section 3.2.
func (d *deviceFlowUseCase) RequestDeviceAuthorization(
	ctx context.Context,
	clientID string,
	scopes []string,
) (*oauthDomain.DeviceAuthorizationOutput, error) {
	client, err := d.clientRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, oauthDomain.ErrClientNotFound) {
			return nil, oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidClient, "unknown client")
		}
		return nil, err
	}

	if !client.IsActive {
		return nil, oauthDomain.NewProtocolError(oauthDomain.ErrorCodeInvalidClient, "client is not active")
	}

	if !client.HasGrantType(oauthDomain.DeviceCodeGrantType) {
		return nil, oauthDomain.NewProtocolError(
			oauthDomain.ErrorCodeInvalidRequest,
			"client is not registered for the device authorization grant",
		)
	}

	deviceCode, err := d.tokenService.GenerateDeviceCode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	code := &oauthDomain.DeviceCode{
		ID:         uuid.Must(uuid.NewV7()),
		DeviceCode: deviceCode,
		ClientID:   client.ID,
		Scopes:     scopes,
		ExpiresAt:  now.Add(d.config.DeviceCodeLifetime),
		Interval:   d.config.DevicePollingInterval,
		CreatedAt:  now,
	}

	// The storage unique constraint on user_code is the authoritative
	// uniqueness guard; the retry loop only resolves collisions cheaply.
	formatted, err := d.createWithUniqueUserCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return &oauthDomain.DeviceAuthorizationOutput{
		DeviceCode:              code.DeviceCode,
		UserCode:                formatted,
		VerificationURI:         d.config.DeviceVerificationURI,
		VerificationURIComplete: d.verificationURIComplete(formatted),
		ExpiresIn:               int(d.config.DeviceCodeLifetime.Seconds()),
		Interval:                int(d.config.DevicePollingInterval.Seconds()),
	}, nil
}

// createWithUniqueUserCode generates user codes until the insert succeeds.
// User codes are stored normalized (no separators); the formatted version is
// returned for display.
func (d *deviceFlowUseCase) createWithUniqueUserCode(
	ctx context.Context,
	code *oauthDomain.DeviceCode,
) (string, error) {
	for attempt := 0; attempt < userCodeMaxAttempts; attempt++ {
		formatted, err := d.userCodeGen.Generate()
		if err != nil {
			return "", err
		}

		code.UserCode = d.userCodeGen.Normalize(formatted)

		err = d.deviceCodeRepo.Create(ctx, code)
		if err == nil {
			return formatted, nil
		}
		if !errors.Is(err, oauthDomain.ErrUserCodeTaken) {
			return "", err
		}

		d.logger.Debug("user code collision, retrying",
			slog.Int("attempt", attempt+1),
		)
	}

	return "", apperrors.New(fmt.Sprintf(
		"failed to generate a unique user code after %d attempts; charset or length is too small",
		userCodeMaxAttempts,
	))
}

// verificationURIComplete appends the user code as a query parameter for
// non-textual transmission (RFC 8628 section 3.3.1).
func (d *deviceFlowUseCase) verificationURIComplete(userCode string) string {
	return d.config.DeviceVerificationURI + "?user_code=" + url.QueryEscape(userCode)
}

// PollToken drives the polling side of the device grant (RFC 8628 section
// 3.4/3.5). The poll timestamp is advanced atomically before any state
// check except expiry, so tight polling loops are throttled no matter the
// outcome.
func (d *deviceFlowUseCase) PollToken(
	ctx context.Context,
	deviceCode string,
) (*oauthDomain.TokenOutput, error) {
	code, err := d.deviceCodeRepo.GetByDeviceCode(ctx, deviceCode)
	if err != nil {
		if errors.Is(err, oauthDomain.ErrDeviceCodeNotFound) {
			return nil, oauthDomain.ErrInvalidDeviceCode
		}
		return nil, err
	}

	now := time.Now().UTC()
	if code.Expired(now) {
		return nil, oauthDomain.ErrExpiredDeviceCode
	}

	allowed, err := d.deviceCodeRepo.TouchLastPolled(ctx, deviceCode, now, code.Interval)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, oauthDomain.ErrSlowDown
	}

	switch {
	case code.UserApproved == nil:
		return nil, oauthDomain.ErrAuthorizationPending

	case !*code.UserApproved:
		// A denied code must not be retried.
		if err := d.deviceCodeRepo.Delete(ctx, deviceCode); err != nil {
			return nil, err
		}
		return nil, oauthDomain.ErrAccessDenied

	default:
		return d.exchange(ctx, code)
	}
}

// exchange consumes an approved device code and issues the token pair. The
// Consume claim guarantees at most one concurrent poller reaches token
// issuance; issuance itself runs in a transaction so a storage failure does
// not leave the code consumed with no token persisted.
func (d *deviceFlowUseCase) exchange(
	ctx context.Context,
	code *oauthDomain.DeviceCode,
) (*oauthDomain.TokenOutput, error) {
	var output *oauthDomain.TokenOutput

	err := d.txManager.WithTx(ctx, func(ctx context.Context) error {
		won, err := d.deviceCodeRepo.Consume(ctx, code.DeviceCode)
		if err != nil {
			return err
		}
		if !won {
			// Another poller exchanged the code first; it is gone.
			return oauthDomain.ErrInvalidDeviceCode
		}

		output, err = d.issueTokens(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("device code exchanged",
		slog.String("client_id", code.ClientID.String()),
	)

	return output, nil
}

// issueTokens creates the access/refresh token pair for the approving user.
func (d *deviceFlowUseCase) issueTokens(
	ctx context.Context,
	code *oauthDomain.DeviceCode,
) (*oauthDomain.TokenOutput, error) {
	now := time.Now().UTC()

	plainAccess, accessHash, err := d.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	accessToken := &oauthDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: accessHash,
		TokenType: oauthDomain.TokenTypeAccess,
		ClientID:  code.ClientID,
		UserID:    code.UserIdentifier,
		Scopes:    code.Scopes,
		ExpiresAt: now.Add(d.config.AccessTokenLifetime),
		CreatedAt: now,
	}
	if err := d.tokenRepo.Create(ctx, accessToken); err != nil {
		return nil, err
	}

	plainRefresh, refreshHash, err := d.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	refreshToken := &oauthDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: refreshHash,
		TokenType: oauthDomain.TokenTypeRefresh,
		ClientID:  code.ClientID,
		UserID:    code.UserIdentifier,
		Scopes:    code.Scopes,
		ExpiresAt: now.Add(d.config.RefreshTokenLifetime),
		CreatedAt: now,
	}
	if err := d.tokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &oauthDomain.TokenOutput{
		AccessToken:  plainAccess,
		TokenType:    "Bearer",
		ExpiresIn:    int(d.config.AccessTokenLifetime.Seconds()),
		RefreshToken: plainRefresh,
		Scope:        strings.Join(code.Scopes, " "),
	}, nil
}

// CompleteDeviceAuthorization records the user's decision. It only succeeds
// while the code is pending; resolved codes reject a second decision.
func (d *deviceFlowUseCase) CompleteDeviceAuthorization(
	ctx context.Context,
	userCode, userIdentifier string,
	approve bool,
) error {
	code, err := d.LookupUserCode(ctx, userCode)
	if err != nil {
		return err
	}

	var identifier *string
	if approve {
		identifier = &userIdentifier
	}

	if err := d.deviceCodeRepo.SetApproval(ctx, code.DeviceCode, approve, identifier); err != nil {
		return err
	}

	d.logger.Info("device authorization completed",
		slog.String("client_id", code.ClientID.String()),
		slog.Bool("approved", approve),
	)

	return nil
}

// LookupUserCode finds the unexpired device code behind a user-entered code.
func (d *deviceFlowUseCase) LookupUserCode(
	ctx context.Context,
	userCode string,
) (*oauthDomain.DeviceCode, error) {
	normalized := d.userCodeGen.Normalize(userCode)
	if normalized == "" {
		return nil, oauthDomain.ErrDeviceCodeNotFound
	}

	return d.deviceCodeRepo.GetByUserCode(ctx, normalized, time.Now().UTC())
}

// CleanupExpired deletes all codes past their expiry, regardless of state.
func (d *deviceFlowUseCase) CleanupExpired(ctx context.Context, dryRun bool) (int64, error) {
	now := time.Now().UTC()

	if dryRun {
		stats, err := d.deviceCodeRepo.Stats(ctx, now)
		if err != nil {
			return 0, err
		}
		return stats.Expired, nil
	}

	return d.deviceCodeRepo.DeleteExpired(ctx, now)
}

// CleanupResolved deletes approved/denied codes older than the retention
// window to bound storage growth.
func (d *deviceFlowUseCase) CleanupResolved(
	ctx context.Context,
	retentionDays int,
	dryRun bool,
) (int64, error) {
	if retentionDays < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "retention days must not be negative")
	}
	if retentionDays == 0 {
		retentionDays = d.config.CleanupRetentionDays
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	if dryRun {
		return d.deviceCodeRepo.CountResolvedBefore(ctx, cutoff)
	}

	return d.deviceCodeRepo.DeleteResolvedBefore(ctx, cutoff)
}

// Stats returns operational counts of device codes by state.
func (d *deviceFlowUseCase) Stats(ctx context.Context) (*oauthDomain.DeviceCodeStats, error) {
	return d.deviceCodeRepo.Stats(ctx, time.Now().UTC())
}

// NewDeviceFlowUseCase creates a new DeviceFlowUseCase with the provided dependencies.
func NewDeviceFlowUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	clientRepo ClientRepository,
	deviceCodeRepo DeviceCodeRepository,
	tokenRepo TokenRepository,
	tokenService oauthService.TokenService,
	userCodeGen oauthService.UserCodeGenerator,
	logger *slog.Logger,
) DeviceFlowUseCase {
	return &deviceFlowUseCase{
		config:         cfg,
		txManager:      txManager,
		clientRepo:     clientRepo,
		deviceCodeRepo: deviceCodeRepo,
		tokenRepo:      tokenRepo,
		tokenService:   tokenService,
		userCodeGen:    userCodeGen,
		logger:         logger,
	}
}
