package domain

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomVerifier(t *testing.T) string {
	t.Helper()

	buf := make([]byte, 32)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	// 43 characters, the RFC 7636 minimum
	return base64.RawURLEncoding.EncodeToString(buf)
}

func TestValidVerifierFormat(t *testing.T) {
	tests := []struct {
		name     string
		verifier string
		want     bool
	}{
		{"minimum length", strings.Repeat("a", 43), true},
		{"maximum length", strings.Repeat("a", 128), true},
		{"too short", strings.Repeat("a", 42), false},
		{"too long", strings.Repeat("a", 129), false},
		{"full unreserved charset", strings.Repeat("Az9-._~", 7), true},
		{"plus sign rejected", strings.Repeat("a", 42) + "+", false},
		{"space rejected", strings.Repeat("a", 42) + " ", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidVerifierFormat(tt.verifier))
		})
	}
}

func TestShannonEntropyBits(t *testing.T) {
	t.Run("repeated character has zero entropy", func(t *testing.T) {
		assert.Zero(t, ShannonEntropyBits(strings.Repeat("a", 43)))
	})

	t.Run("two alternating characters stay below 128 bits", func(t *testing.T) {
		bits := ShannonEntropyBits(strings.Repeat("ab", 32))
		assert.Less(t, bits, 128.0)
	})

	t.Run("random verifier clears 128 bits", func(t *testing.T) {
		bits := ShannonEntropyBits(randomVerifier(t))
		assert.GreaterOrEqual(t, bits, 128.0)
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Zero(t, ShannonEntropyBits(""))
	})
}

func TestVerifyChallenge_S256RoundTrip(t *testing.T) {
	for range 20 {
		verifier := randomVerifier(t)
		challenge := ComputeS256Challenge(verifier)

		assert.True(t, VerifyChallenge(challenge, PKCEMethodS256, verifier))
	}
}

func TestVerifyChallenge_TamperDetection(t *testing.T) {
	verifier := randomVerifier(t)
	challenge := ComputeS256Challenge(verifier)

	t.Run("flipped challenge character", func(t *testing.T) {
		tampered := flipChar(challenge, 0)
		assert.False(t, VerifyChallenge(tampered, PKCEMethodS256, verifier))
	})

	t.Run("flipped verifier character", func(t *testing.T) {
		tampered := flipChar(verifier, len(verifier)-1)
		assert.False(t, VerifyChallenge(challenge, PKCEMethodS256, tampered))
	})
}

func TestVerifyChallenge_Plain(t *testing.T) {
	verifier := randomVerifier(t)

	assert.True(t, VerifyChallenge(verifier, PKCEMethodPlain, verifier))
	assert.False(t, VerifyChallenge(verifier+"x", PKCEMethodPlain, verifier))
}

func TestVerifyChallenge_UnknownMethod(t *testing.T) {
	verifier := randomVerifier(t)
	challenge := ComputeS256Challenge(verifier)

	assert.False(t, VerifyChallenge(challenge, "S512", verifier))
	assert.False(t, VerifyChallenge(challenge, "", verifier))
}

// flipChar replaces the character at index i with a different one from the
// verifier charset.
func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'a' {
		b[i] = 'b'
	} else {
		b[i] = 'a'
	}
	return string(b)
}
