// Package mocks provides mock implementations of the OAuth technical
// services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of TokenService for testing.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method of TokenService.
func (m *MockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// GenerateDeviceCode mocks the GenerateDeviceCode method of TokenService.
func (m *MockTokenService) GenerateDeviceCode() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// HashToken mocks the HashToken method of TokenService.
func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

// MockSecretService is a mock implementation of SecretService for testing.
type MockSecretService struct {
	mock.Mock
}

// GenerateSecret mocks the GenerateSecret method of SecretService.
func (m *MockSecretService) GenerateSecret() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashSecret mocks the HashSecret method of SecretService.
func (m *MockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

// CompareSecret mocks the CompareSecret method of SecretService.
func (m *MockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// MockUserCodeGenerator is a mock implementation of UserCodeGenerator for testing.
type MockUserCodeGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method of UserCodeGenerator.
func (m *MockUserCodeGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// Normalize mocks the Normalize method of UserCodeGenerator.
func (m *MockUserCodeGenerator) Normalize(userCode string) string {
	args := m.Called(userCode)
	return args.String(0)
}
