package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/metrics"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// operationStatus maps an operation result to a metric status label.
// Protocol outcomes are labelled by their RFC error code so flow states
// (authorization_pending, slow_down, ...) are visible separately from
// infrastructure failures.
func operationStatus(err error) string {
	if err == nil {
		return "success"
	}

	var protocolErr *oauthDomain.ProtocolError
	if errors.As(err, &protocolErr) {
		return protocolErr.Code
	}

	return "error"
}

// deviceFlowUseCaseWithMetrics decorates DeviceFlowUseCase with metrics
// instrumentation.
type deviceFlowUseCaseWithMetrics struct {
	next    DeviceFlowUseCase
	metrics metrics.BusinessMetrics
}

// NewDeviceFlowUseCaseWithMetrics wraps a DeviceFlowUseCase with metrics recording.
func NewDeviceFlowUseCaseWithMetrics(useCase DeviceFlowUseCase, m metrics.BusinessMetrics) DeviceFlowUseCase {
	return &deviceFlowUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *deviceFlowUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := operationStatus(err)
	d.metrics.RecordOperation(ctx, "oauth", operation, status)
	d.metrics.RecordDuration(ctx, "oauth", operation, time.Since(start), status)
}

// RequestDeviceAuthorization records metrics for device authorization requests.
func (d *deviceFlowUseCaseWithMetrics) RequestDeviceAuthorization(
	ctx context.Context,
	clientID string,
	scopes []string,
) (*oauthDomain.DeviceAuthorizationOutput, error) {
	start := time.Now()
	output, err := d.next.RequestDeviceAuthorization(ctx, clientID, scopes)
	d.record(ctx, "device_authorization", start, err)
	return output, err
}

// PollToken records metrics for device grant polls, labelled by flow state.
func (d *deviceFlowUseCaseWithMetrics) PollToken(
	ctx context.Context,
	deviceCode string,
) (*oauthDomain.TokenOutput, error) {
	start := time.Now()
	output, err := d.next.PollToken(ctx, deviceCode)
	d.record(ctx, "device_poll", start, err)
	return output, err
}

// CompleteDeviceAuthorization records metrics for user approval decisions.
func (d *deviceFlowUseCaseWithMetrics) CompleteDeviceAuthorization(
	ctx context.Context,
	userCode, userIdentifier string,
	approve bool,
) error {
	start := time.Now()
	err := d.next.CompleteDeviceAuthorization(ctx, userCode, userIdentifier, approve)
	d.record(ctx, "device_complete", start, err)
	return err
}

// LookupUserCode records metrics for user code lookups.
func (d *deviceFlowUseCaseWithMetrics) LookupUserCode(
	ctx context.Context,
	userCode string,
) (*oauthDomain.DeviceCode, error) {
	start := time.Now()
	code, err := d.next.LookupUserCode(ctx, userCode)
	d.record(ctx, "device_lookup_user_code", start, err)
	return code, err
}

// CleanupExpired records metrics for expired code sweeps.
func (d *deviceFlowUseCaseWithMetrics) CleanupExpired(ctx context.Context, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := d.next.CleanupExpired(ctx, dryRun)
	d.record(ctx, "device_cleanup_expired", start, err)
	return count, err
}

// CleanupResolved records metrics for resolved code sweeps.
func (d *deviceFlowUseCaseWithMetrics) CleanupResolved(
	ctx context.Context,
	retentionDays int,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := d.next.CleanupResolved(ctx, retentionDays, dryRun)
	d.record(ctx, "device_cleanup_resolved", start, err)
	return count, err
}

// Stats records metrics for stats queries.
func (d *deviceFlowUseCaseWithMetrics) Stats(ctx context.Context) (*oauthDomain.DeviceCodeStats, error) {
	start := time.Now()
	stats, err := d.next.Stats(ctx)
	d.record(ctx, "device_stats", start, err)
	return stats, err
}

// revocationUseCaseWithMetrics decorates RevocationUseCase with metrics
// instrumentation.
type revocationUseCaseWithMetrics struct {
	next    RevocationUseCase
	metrics metrics.BusinessMetrics
}

// NewRevocationUseCaseWithMetrics wraps a RevocationUseCase with metrics recording.
func NewRevocationUseCaseWithMetrics(useCase RevocationUseCase, m metrics.BusinessMetrics) RevocationUseCase {
	return &revocationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Revoke records metrics for revocation operations.
func (r *revocationUseCaseWithMetrics) Revoke(
	ctx context.Context,
	tokenValue string,
	clientID uuid.UUID,
	bypassOwnership bool,
) (bool, error) {
	start := time.Now()
	revoked, err := r.next.Revoke(ctx, tokenValue, clientID, bypassOwnership)

	status := operationStatus(err)
	r.metrics.RecordOperation(ctx, "oauth", "token_revoke", status)
	r.metrics.RecordDuration(ctx, "oauth", "token_revoke", time.Since(start), status)

	return revoked, err
}

// introspectionUseCaseWithMetrics decorates IntrospectionUseCase with metrics
// instrumentation.
type introspectionUseCaseWithMetrics struct {
	next    IntrospectionUseCase
	metrics metrics.BusinessMetrics
}

// NewIntrospectionUseCaseWithMetrics wraps an IntrospectionUseCase with metrics recording.
func NewIntrospectionUseCaseWithMetrics(useCase IntrospectionUseCase, m metrics.BusinessMetrics) IntrospectionUseCase {
	return &introspectionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Introspect records metrics for introspection operations.
func (i *introspectionUseCaseWithMetrics) Introspect(
	ctx context.Context,
	tokenValue string,
	requester *Requester,
) (*oauthDomain.IntrospectionResponse, error) {
	start := time.Now()
	response, err := i.next.Introspect(ctx, tokenValue, requester)

	status := operationStatus(err)
	i.metrics.RecordOperation(ctx, "oauth", "token_introspect", status)
	i.metrics.RecordDuration(ctx, "oauth", "token_introspect", time.Since(start), status)

	return response, err
}
