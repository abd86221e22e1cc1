package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	oauthDomain "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// MemoryClientRepository is an in-memory Client repository. Safe for
// concurrent use; intended for tests and single-process deployments.
type MemoryClientRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*oauthDomain.Client
	byClient map[string]uuid.UUID
}

// NewMemoryClientRepository creates an empty in-memory Client repository.
func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{
		byID:     make(map[uuid.UUID]*oauthDomain.Client),
		byClient: make(map[string]uuid.UUID),
	}
}

// Create stores a new client.
func (r *MemoryClientRepository) Create(_ context.Context, client *oauthDomain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byClient[client.ClientID]; ok {
		return apperrors.Wrap(apperrors.ErrConflict, "client_id already registered")
	}

	c := *client
	r.byID[c.ID] = &c
	r.byClient[c.ClientID] = c.ID
	return nil
}

// Get retrieves a client by ID.
func (r *MemoryClientRepository) Get(_ context.Context, id uuid.UUID) (*oauthDomain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.byID[id]
	if !ok {
		return nil, oauthDomain.ErrClientNotFound
	}
	c := *client
	return &c, nil
}

// GetByClientID retrieves a client by its wire client_id.
func (r *MemoryClientRepository) GetByClientID(
	_ context.Context,
	clientID string,
) (*oauthDomain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byClient[clientID]
	if !ok {
		return nil, oauthDomain.ErrClientNotFound
	}
	c := *r.byID[id]
	return &c, nil
}

// MemoryDeviceCodeRepository is an in-memory DeviceCode repository. The
// mutex provides the same atomicity the SQL repositories get from guarded
// single statements: Consume and TouchLastPolled are check-and-act under
// one lock acquisition.
type MemoryDeviceCodeRepository struct {
	mu         sync.Mutex
	byDevice   map[string]*oauthDomain.DeviceCode
	byUserCode map[string]string // user code -> device code
}

// NewMemoryDeviceCodeRepository creates an empty in-memory DeviceCode repository.
func NewMemoryDeviceCodeRepository() *MemoryDeviceCodeRepository {
	return &MemoryDeviceCodeRepository{
		byDevice:   make(map[string]*oauthDomain.DeviceCode),
		byUserCode: make(map[string]string),
	}
}

// Create stores a new device code, enforcing user code uniqueness.
func (r *MemoryDeviceCodeRepository) Create(_ context.Context, code *oauthDomain.DeviceCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserCode[code.UserCode]; ok {
		return oauthDomain.ErrUserCodeTaken
	}

	c := *code
	r.byDevice[c.DeviceCode] = &c
	r.byUserCode[c.UserCode] = c.DeviceCode
	return nil
}

// GetByDeviceCode retrieves a device code by its opaque value.
func (r *MemoryDeviceCodeRepository) GetByDeviceCode(
	_ context.Context,
	deviceCode string,
) (*oauthDomain.DeviceCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byDevice[deviceCode]
	if !ok {
		return nil, oauthDomain.ErrDeviceCodeNotFound
	}
	c := *code
	return &c, nil
}

// GetByUserCode retrieves an unexpired device code by its normalized user code.
func (r *MemoryDeviceCodeRepository) GetByUserCode(
	_ context.Context,
	userCode string,
	now time.Time,
) (*oauthDomain.DeviceCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deviceCode, ok := r.byUserCode[userCode]
	if !ok {
		return nil, oauthDomain.ErrDeviceCodeNotFound
	}

	code := r.byDevice[deviceCode]
	if code.Expired(now) {
		return nil, oauthDomain.ErrDeviceCodeNotFound
	}

	c := *code
	return &c, nil
}

// TouchLastPolled advances the poll timestamp if the interval has elapsed.
func (r *MemoryDeviceCodeRepository) TouchLastPolled(
	_ context.Context,
	deviceCode string,
	now time.Time,
	minInterval time.Duration,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byDevice[deviceCode]
	if !ok {
		return false, nil
	}

	if code.LastPolledAt != nil && code.LastPolledAt.After(now.Add(-minInterval)) {
		return false, nil
	}

	t := now
	code.LastPolledAt = &t
	return true, nil
}

// SetApproval records the user's decision while the code is pending.
func (r *MemoryDeviceCodeRepository) SetApproval(
	_ context.Context,
	deviceCode string,
	approved bool,
	userIdentifier *string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byDevice[deviceCode]
	if !ok || code.UserApproved != nil {
		return oauthDomain.ErrDeviceCodeNotFound
	}

	a := approved
	code.UserApproved = &a
	code.UserIdentifier = userIdentifier
	return nil
}

// Consume deletes an approved device code; at most one caller wins.
func (r *MemoryDeviceCodeRepository) Consume(_ context.Context, deviceCode string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byDevice[deviceCode]
	if !ok || code.UserApproved == nil || !*code.UserApproved {
		return false, nil
	}

	r.remove(code)
	return true, nil
}

// Delete removes a device code unconditionally.
func (r *MemoryDeviceCodeRepository) Delete(_ context.Context, deviceCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if code, ok := r.byDevice[deviceCode]; ok {
		r.remove(code)
	}
	return nil
}

// DeleteExpired removes all codes past their expiry.
func (r *MemoryDeviceCodeRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, code := range r.byDevice {
		if code.Expired(now) {
			r.remove(code)
			count++
		}
	}
	return count, nil
}

// DeleteResolvedBefore removes resolved codes created before the cutoff.
func (r *MemoryDeviceCodeRepository) DeleteResolvedBefore(
	_ context.Context,
	cutoff time.Time,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, code := range r.byDevice {
		if code.UserApproved != nil && code.CreatedAt.Before(cutoff) {
			r.remove(code)
			count++
		}
	}
	return count, nil
}

// CountResolvedBefore counts the codes DeleteResolvedBefore would remove.
func (r *MemoryDeviceCodeRepository) CountResolvedBefore(
	_ context.Context,
	cutoff time.Time,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, code := range r.byDevice {
		if code.UserApproved != nil && code.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

// Stats returns counts of active, authorized, and expired codes.
func (r *MemoryDeviceCodeRepository) Stats(
	_ context.Context,
	now time.Time,
) (*oauthDomain.DeviceCodeStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Authorized counts approved codes of any age, so an approved code past
	// its expiry lands in both the authorized and expired counts.
	var stats oauthDomain.DeviceCodeStats
	for _, code := range r.byDevice {
		if code.UserApproved != nil && *code.UserApproved {
			stats.Authorized++
		}
		switch {
		case code.Expired(now):
			stats.Expired++
		case code.UserApproved == nil:
			stats.Active++
		}
	}
	return &stats, nil
}

// remove must be called with the lock held.
func (r *MemoryDeviceCodeRepository) remove(code *oauthDomain.DeviceCode) {
	delete(r.byDevice, code.DeviceCode)
	delete(r.byUserCode, code.UserCode)
}

// MemoryTokenRepository is an in-memory Token repository. Safe for
// concurrent use.
type MemoryTokenRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*oauthDomain.Token
	byHash map[string]uuid.UUID // token_hash + "\x00" + token_type -> id
}

// NewMemoryTokenRepository creates an empty in-memory Token repository.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{
		byID:   make(map[uuid.UUID]*oauthDomain.Token),
		byHash: make(map[string]uuid.UUID),
	}
}

func tokenKey(tokenHash, tokenType string) string {
	return tokenHash + "\x00" + tokenType
}

// Create stores a new token.
func (r *MemoryTokenRepository) Create(_ context.Context, token *oauthDomain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tokenKey(token.TokenHash, token.TokenType)
	if _, ok := r.byHash[key]; ok {
		return apperrors.Wrap(apperrors.ErrConflict, "token hash already stored")
	}

	t := *token
	r.byID[t.ID] = &t
	r.byHash[key] = t.ID
	return nil
}

// GetByHashAndType retrieves a token by hash and type.
func (r *MemoryTokenRepository) GetByHashAndType(
	_ context.Context,
	tokenHash, tokenType string,
) (*oauthDomain.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byHash[tokenKey(tokenHash, tokenType)]
	if !ok {
		return nil, oauthDomain.ErrTokenNotFound
	}
	t := *r.byID[id]
	return &t, nil
}

// Revoke marks the token revoked, keeping the original time on repeat calls.
func (r *MemoryTokenRepository) Revoke(_ context.Context, id uuid.UUID, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.byID[id]
	if !ok {
		return nil
	}
	if token.RevokedAt == nil {
		t := revokedAt
		token.RevokedAt = &t
	}
	return nil
}
