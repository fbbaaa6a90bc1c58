package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	saved []models.User
	err   error
}

func (r *recordingSaver) Save(_ context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, *user)
	return nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestOTPManager(saver userSaver) (*OTPManager, *clock) {
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	return NewOTPManager(saver, 10*time.Minute).WithClock(c.Now), c
}

func TestOTPIssue_PersistsCodeAndExpiry(t *testing.T) {
	saver := &recordingSaver{}
	m, c := newTestOTPManager(saver)
	user := &models.User{ID: "u1"}

	code, err := m.Issue(context.Background(), user)
	require.NoError(t, err)

	assert.Len(t, code, utils.OTP_DIGITS)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, code, saver.saved[0].OTP.Code)
	assert.Equal(t, c.now.Add(10*time.Minute), *saver.saved[0].OTP.ExpiresAt)
}

func TestOTPVerify_WithinWindowThenExpired(t *testing.T) {
	m, c := newTestOTPManager(&recordingSaver{})
	user := &models.User{ID: "u1"}

	code, err := m.Issue(context.Background(), user)
	require.NoError(t, err)

	c.Advance(9*time.Minute + 59*time.Second)
	assert.NoError(t, m.Verify(user, code))
	// verification does not consume
	assert.NoError(t, m.Verify(user, code))

	c.Advance(2 * time.Second)
	assert.ErrorIs(t, m.Verify(user, code), utils.ErrOtpExpired)
}

func TestOTPVerify_Mismatch(t *testing.T) {
	m, _ := newTestOTPManager(&recordingSaver{})
	m.generate = func() (string, error) { return "1234", nil }
	user := &models.User{ID: "u1"}

	_, err := m.Issue(context.Background(), user)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Verify(user, "4321"), utils.ErrOtpMismatch)
	assert.ErrorIs(t, m.Verify(user, ""), utils.ErrOtpMismatch)
	assert.NoError(t, m.Verify(user, " 1234 "))
}

func TestOTPVerify_NonePending(t *testing.T) {
	m, _ := newTestOTPManager(&recordingSaver{})

	assert.ErrorIs(t, m.Verify(&models.User{ID: "u1"}, "1234"), utils.ErrNoOtpPending)
}

func TestOTPIssue_SecondCodeReplacesFirst(t *testing.T) {
	m, _ := newTestOTPManager(&recordingSaver{})
	codes := []string{"1111", "2222"}
	m.generate = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}
	user := &models.User{ID: "u1"}

	first, err := m.Issue(context.Background(), user)
	require.NoError(t, err)
	second, err := m.Issue(context.Background(), user)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Verify(user, first), utils.ErrOtpMismatch)
	assert.NoError(t, m.Verify(user, second))
}

func TestOTPConsume(t *testing.T) {
	saver := &recordingSaver{}
	m, _ := newTestOTPManager(saver)
	user := &models.User{ID: "u1"}

	code, err := m.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NoError(t, m.Consume(context.Background(), user))

	assert.ErrorIs(t, m.Verify(user, code), utils.ErrNoOtpPending)
	require.Len(t, saver.saved, 2)
	assert.False(t, saver.saved[1].OTP.Pending())
}

func TestOTPIssue_Errors(t *testing.T) {
	m, _ := newTestOTPManager(&recordingSaver{err: errors.New("db down")})
	_, err := m.Issue(context.Background(), &models.User{ID: "u1"})
	assert.ErrorContains(t, err, "error saving otp")

	m, _ = newTestOTPManager(&recordingSaver{})
	m.generate = func() (string, error) { return "", errors.New("no entropy") }
	_, err = m.Issue(context.Background(), &models.User{ID: "u1"})
	assert.ErrorContains(t, err, "error generating otp")
}

func TestNewOTPManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, utils.OTP_DURATION, NewOTPManager(&recordingSaver{}, 0).TTL())
}
