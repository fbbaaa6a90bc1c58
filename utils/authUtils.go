package utils

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/xlzd/gotp"
	"golang.org/x/crypto/bcrypt"
)

var secretLength int = 10

// HashPassword reports passwords bcrypt cannot take as ErrValidation, so
// callers answer them as bad input.
func HashPassword(password string) (string, error) {
	if len(password) > MAX_PASSWORD_BYTES {
		return "", fmt.Errorf("%w: password longer than %d bytes", ErrValidation, MAX_PASSWORD_BYTES)
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HASH_ROUNDS)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return string(bytes), err
}

func ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// RandomSecret returns a base32 secret read from crypto/rand.
func RandomSecret() (string, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString(b), nil
}

// GetVerificationCode returns a zero-padded OTP_DIGITS wide numeric code. Each
// call derives the code from a fresh secret, so successive codes are
// independent of each other.
func GetVerificationCode() (string, error) {
	secret, err := RandomSecret()
	if err != nil {
		return "", err
	}
	return gotp.NewHOTP(secret, OTP_DIGITS, nil).At(0), nil
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode strips whitespace a user may paste around or inside a code.
func NormalizeCode(code string) string {
	return strings.Join(strings.Fields(code), "")
}
