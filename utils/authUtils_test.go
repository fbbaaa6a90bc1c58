package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)
	assert.NoError(t, ComparePasswords(hash, "pw123"))
	assert.Error(t, ComparePasswords(hash, "pw124"))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestGetVerificationCode_FixedWidthDigits(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{4}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		code, err := GetVerificationCode()
		require.NoError(t, err)
		require.Regexp(t, digits, code)
		seen[code] = struct{}{}
	}
	// 200 draws from 10^4 values collapsing to a handful would mean a broken source.
	assert.Greater(t, len(seen), 150)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "1234", NormalizeCode(" 12 34\n"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MAX_PASSWORD_BYTES+8))
	assert.ErrorIs(t, err, ErrValidation)

	// 40 runes, 80 bytes
	_, err = HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = HashPassword(strings.Repeat("a", MAX_PASSWORD_BYTES))
	assert.NoError(t, err)
}
