package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

func TestUserCodeGenerator_Generate(t *testing.T) {
	gen := NewUserCodeGenerator(domain.DefaultUserCodeCharset, 8)

	code, err := gen.Generate()
	require.NoError(t, err)

	// XXXX-XXXX
	assert.Len(t, code, 9)
	assert.Equal(t, "-", string(code[4]))

	for _, ch := range strings.ReplaceAll(code, "-", "") {
		assert.Contains(t, domain.DefaultUserCodeCharset, string(ch))
	}
}

func TestUserCodeGenerator_Generate_ExcludesAmbiguousCharacters(t *testing.T) {
	gen := NewUserCodeGenerator(domain.DefaultUserCodeCharset, 8)

	for range 200 {
		code, err := gen.Generate()
		require.NoError(t, err)
		for _, forbidden := range []string{"0", "O", "1", "I", "l"} {
			assert.NotContains(t, code, forbidden)
		}
	}
}

func TestUserCodeGenerator_Generate_CustomLength(t *testing.T) {
	gen := NewUserCodeGenerator("ABC234", 12)

	code, err := gen.Generate()
	require.NoError(t, err)

	// XXXX-XXXX-XXXX
	assert.Len(t, code, 14)
	assert.Equal(t, 12, len(strings.ReplaceAll(code, "-", "")))
}

func TestUserCodeGenerator_Normalize(t *testing.T) {
	gen := NewUserCodeGenerator(domain.DefaultUserCodeCharset, 8)

	tests := []struct {
		input string
		want  string
	}{
		{"BCDF-GHJK", "BCDFGHJK"},
		{"bcdf-ghjk", "BCDFGHJK"},
		{"bcdf ghjk", "BCDFGHJK"},
		{" b c d f g h j k ", "BCDFGHJK"},
		{"BCDFGHJK", "BCDFGHJK"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, gen.Normalize(tt.input))
		})
	}
}

func TestUserCodeGenerator_GeneratedCodeNormalizesToItself(t *testing.T) {
	gen := NewUserCodeGenerator(domain.DefaultUserCodeCharset, 8)

	code, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(code, "-", ""), gen.Normalize(code))
}

func TestNewUserCodeGenerator_Defaults(t *testing.T) {
	gen := NewUserCodeGenerator("", 0)

	code, err := gen.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 9)
}
