package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDeviceCode_Status(t *testing.T) {
	now := time.Now().UTC()
	approved := true
	denied := false

	tests := []struct {
		name string
		code DeviceCode
		want DeviceCodeStatus
	}{
		{
			name: "pending while unresolved and unexpired",
			code: DeviceCode{ExpiresAt: now.Add(time.Hour)},
			want: DeviceCodeStatusPending,
		},
		{
			name: "approved",
			code: DeviceCode{ExpiresAt: now.Add(time.Hour), UserApproved: &approved},
			want: DeviceCodeStatusApproved,
		},
		{
			name: "denied",
			code: DeviceCode{ExpiresAt: now.Add(time.Hour), UserApproved: &denied},
			want: DeviceCodeStatusDenied,
		},
		{
			name: "expiry dominates approval",
			code: DeviceCode{ExpiresAt: now.Add(-time.Minute), UserApproved: &approved},
			want: DeviceCodeStatusExpired,
		},
		{
			name: "expired while pending",
			code: DeviceCode{ExpiresAt: now.Add(-time.Minute)},
			want: DeviceCodeStatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Status(now))
		})
	}
}

func TestDeviceCode_Resolved(t *testing.T) {
	approved := true

	code := DeviceCode{ID: uuid.Must(uuid.NewV7())}
	assert.False(t, code.Resolved())

	code.UserApproved = &approved
	assert.True(t, code.Resolved())
}

func TestToken_Active(t *testing.T) {
	now := time.Now().UTC()
	revokedAt := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token Token
		want  bool
	}{
		{"live token", Token{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired token", Token{ExpiresAt: now.Add(-time.Second)}, false},
		{"revoked token", Token{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Active(now))
		})
	}
}
