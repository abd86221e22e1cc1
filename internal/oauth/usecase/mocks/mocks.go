// Package mocks provides mock implementations of the OAuth repositories and
// use cases for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
	oauthUsecase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// MockClientRepository is a mock implementation of ClientRepository for testing.
type MockClientRepository struct {
	mock.Mock
}

// Create mocks the Create method of ClientRepository.
func (m *MockClientRepository) Create(ctx context.Context, client *oauthDomain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// Get mocks the Get method of ClientRepository.
func (m *MockClientRepository) Get(ctx context.Context, id uuid.UUID) (*oauthDomain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.Client), args.Error(1)
}

// GetByClientID mocks the GetByClientID method of ClientRepository.
func (m *MockClientRepository) GetByClientID(ctx context.Context, clientID string) (*oauthDomain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.Client), args.Error(1)
}

// MockDeviceCodeRepository is a mock implementation of DeviceCodeRepository for testing.
type MockDeviceCodeRepository struct {
	mock.Mock
}

// Create mocks the Create method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) Create(ctx context.Context, code *oauthDomain.DeviceCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// GetByDeviceCode mocks the GetByDeviceCode method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) GetByDeviceCode(
	ctx context.Context,
	deviceCode string,
) (*oauthDomain.DeviceCode, error) {
	args := m.Called(ctx, deviceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.DeviceCode), args.Error(1)
}

// GetByUserCode mocks the GetByUserCode method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) GetByUserCode(
	ctx context.Context,
	userCode string,
	now time.Time,
) (*oauthDomain.DeviceCode, error) {
	args := m.Called(ctx, userCode, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.DeviceCode), args.Error(1)
}

// TouchLastPolled mocks the TouchLastPolled method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) TouchLastPolled(
	ctx context.Context,
	deviceCode string,
	now time.Time,
	minInterval time.Duration,
) (bool, error) {
	args := m.Called(ctx, deviceCode, now, minInterval)
	return args.Bool(0), args.Error(1)
}

// SetApproval mocks the SetApproval method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) SetApproval(
	ctx context.Context,
	deviceCode string,
	approved bool,
	userIdentifier *string,
) error {
	args := m.Called(ctx, deviceCode, approved, userIdentifier)
	return args.Error(0)
}

// Consume mocks the Consume method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) Consume(ctx context.Context, deviceCode string) (bool, error) {
	args := m.Called(ctx, deviceCode)
	return args.Bool(0), args.Error(1)
}

// Delete mocks the Delete method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) Delete(ctx context.Context, deviceCode string) error {
	args := m.Called(ctx, deviceCode)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteResolvedBefore mocks the DeleteResolvedBefore method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// CountResolvedBefore mocks the CountResolvedBefore method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) CountResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Stats mocks the Stats method of DeviceCodeRepository.
func (m *MockDeviceCodeRepository) Stats(ctx context.Context, now time.Time) (*oauthDomain.DeviceCodeStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.DeviceCodeStats), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository for testing.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method of TokenRepository.
func (m *MockTokenRepository) Create(ctx context.Context, token *oauthDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// GetByHashAndType mocks the GetByHashAndType method of TokenRepository.
func (m *MockTokenRepository) GetByHashAndType(
	ctx context.Context,
	tokenHash, tokenType string,
) (*oauthDomain.Token, error) {
	args := m.Called(ctx, tokenHash, tokenType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.Token), args.Error(1)
}

// Revoke mocks the Revoke method of TokenRepository.
func (m *MockTokenRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

// MockPkceUseCase is a mock implementation of PkceUseCase for testing.
type MockPkceUseCase struct {
	mock.Mock
}

// ValidatePkceParameters mocks the ValidatePkceParameters method of PkceUseCase.
func (m *MockPkceUseCase) ValidatePkceParameters(
	ctx context.Context,
	input *oauthUsecase.ValidatePkceInput,
) (*oauthDomain.ValidationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.ValidationResult), args.Error(1)
}

// ClientRequiresEnhancedPkce mocks the ClientRequiresEnhancedPkce method of PkceUseCase.
func (m *MockPkceUseCase) ClientRequiresEnhancedPkce(client *oauthDomain.Client) bool {
	args := m.Called(client)
	return args.Bool(0)
}

// MockDeviceFlowUseCase is a mock implementation of DeviceFlowUseCase for testing.
type MockDeviceFlowUseCase struct {
	mock.Mock
}

// RequestDeviceAuthorization mocks the RequestDeviceAuthorization method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) RequestDeviceAuthorization(
	ctx context.Context,
	clientID string,
	scopes []string,
) (*oauthDomain.DeviceAuthorizationOutput, error) {
	args := m.Called(ctx, clientID, scopes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.DeviceAuthorizationOutput), args.Error(1)
}

// PollToken mocks the PollToken method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) PollToken(
	ctx context.Context,
	deviceCode string,
) (*oauthDomain.TokenOutput, error) {
	args := m.Called(ctx, deviceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.TokenOutput), args.Error(1)
}

// CompleteDeviceAuthorization mocks the CompleteDeviceAuthorization method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) CompleteDeviceAuthorization(
	ctx context.Context,
	userCode, userIdentifier string,
	approve bool,
) error {
	args := m.Called(ctx, userCode, userIdentifier, approve)
	return args.Error(0)
}

// LookupUserCode mocks the LookupUserCode method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) LookupUserCode(
	ctx context.Context,
	userCode string,
) (*oauthDomain.DeviceCode, error) {
	args := m.Called(ctx, userCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.DeviceCode), args.Error(1)
}

// CleanupExpired mocks the CleanupExpired method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) CleanupExpired(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// CleanupResolved mocks the CleanupResolved method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) CleanupResolved(
	ctx context.Context,
	retentionDays int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, retentionDays, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// Stats mocks the Stats method of DeviceFlowUseCase.
func (m *MockDeviceFlowUseCase) Stats(ctx context.Context) (*oauthDomain.DeviceCodeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.DeviceCodeStats), args.Error(1)
}

// MockRevocationUseCase is a mock implementation of RevocationUseCase for testing.
type MockRevocationUseCase struct {
	mock.Mock
}

// Revoke mocks the Revoke method of RevocationUseCase.
func (m *MockRevocationUseCase) Revoke(
	ctx context.Context,
	tokenValue string,
	clientID uuid.UUID,
	bypassOwnership bool,
) (bool, error) {
	args := m.Called(ctx, tokenValue, clientID, bypassOwnership)
	return args.Bool(0), args.Error(1)
}

// MockIntrospectionUseCase is a mock implementation of IntrospectionUseCase for testing.
type MockIntrospectionUseCase struct {
	mock.Mock
}

// Introspect mocks the Introspect method of IntrospectionUseCase.
func (m *MockIntrospectionUseCase) Introspect(
	ctx context.Context,
	tokenValue string,
	requester *oauthUsecase.Requester,
) (*oauthDomain.IntrospectionResponse, error) {
	args := m.Called(ctx, tokenValue, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.IntrospectionResponse), args.Error(1)
}
