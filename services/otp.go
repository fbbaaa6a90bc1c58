package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
)

type userSaver interface {
	Save(ctx context.Context, user *models.User) error
}

// OTPManager issues and checks the password reset code kept on the user
// record. The persisted code is the only record of where a user is in the
// reset flow.
type OTPManager struct {
	users    userSaver
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

func NewOTPManager(users userSaver, ttl time.Duration) *OTPManager {
	if ttl <= 0 {
		ttl = utils.OTP_DURATION
	}
	return &OTPManager{
		users:    users,
		ttl:      ttl,
		now:      time.Now,
		generate: utils.GetVerificationCode,
	}
}

// WithClock replaces the time source. Used by tests.
func (m *OTPManager) WithClock(now func() time.Time) *OTPManager {
	m.now = now
	return m
}

func (m *OTPManager) TTL() time.Duration {
	return m.ttl
}

// Issue stores a fresh code on user, replacing any outstanding one, and
// returns it for delivery.
func (m *OTPManager) Issue(ctx context.Context, user *models.User) (string, error) {
	code, err := m.generate()
	if err != nil {
		return "", fmt.Errorf("error generating otp: %w", err)
	}
	expiresAt := m.now().Add(m.ttl).UTC()
	user.OTP = models.OTP{Code: code, ExpiresAt: &expiresAt}
	if err := m.users.Save(ctx, user); err != nil {
		return "", fmt.Errorf("error saving otp: %w", err)
	}
	return code, nil
}

// Verify checks code against the outstanding one without consuming it.
func (m *OTPManager) Verify(user *models.User, code string) error {
	if !user.OTP.Pending() {
		return utils.ErrNoOtpPending
	}
	if m.now().After(*user.OTP.ExpiresAt) {
		return utils.ErrOtpExpired
	}
	supplied := utils.NormalizeCode(code)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(user.OTP.Code)) != 1 {
		return utils.ErrOtpMismatch
	}
	return nil
}

// Clear drops the outstanding code in memory only; the caller persists it.
func (m *OTPManager) Clear(user *models.User) {
	user.OTP = models.OTP{}
}

func (m *OTPManager) Consume(ctx context.Context, user *models.User) error {
	m.Clear(user)
	if err := m.users.Save(ctx, user); err != nil {
		return fmt.Errorf("error clearing otp: %w", err)
	}
	return nil
}
