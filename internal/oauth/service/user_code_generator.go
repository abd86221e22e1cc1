package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	apperrors "github.com/e0ipso/simple-oauth-21-sub003/internal/errors"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/domain"
)

// userCodeGenerator implements UserCodeGenerator with a configurable charset
// and length. Codes are chunked with hyphens every four characters for
// readability (XXXX-XXXX at the default length of 8).
type userCodeGenerator struct {
	charset string
	length  int
}

// Generate returns a formatted user code using crypto/rand selection.
func (g *userCodeGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(g.charset)))

	raw := make([]byte, g.length)
	for i := range raw {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to generate user code")
		}
		raw[i] = g.charset[n.Int64()]
	}

	return chunk(string(raw), domain.UserCodeChunkSize), nil
}

// Normalize strips spaces and hyphens and uppercases, so user input like
// "bcdf ghjk" or "bcdf-ghjk" matches the stored "BCDF-GHJK" code. Stored
// codes are normalized the same way before comparison.
func (g *userCodeGenerator) Normalize(userCode string) string {
	replaced := strings.NewReplacer(" ", "", "-", "").Replace(userCode)
	return strings.ToUpper(replaced)
}

// chunk inserts a hyphen every n characters.
func chunk(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}

	var b strings.Builder
	for i, ch := range []byte(s) {
		if i > 0 && i%n == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// NewUserCodeGenerator creates a UserCodeGenerator for the given charset and
// length. Falls back to the default low-ambiguity charset and length 8 when
// given unusable values.
func NewUserCodeGenerator(charset string, length int) UserCodeGenerator {
	if charset == "" {
		charset = domain.DefaultUserCodeCharset
	}
	if length <= 0 {
		length = 8
	}

	return &userCodeGenerator{
		charset: charset,
		length:  length,
	}
}
