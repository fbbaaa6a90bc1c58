// Package services implements registration, login, Google sign-in, profile
// access and the three step password reset on top of the credential store,
// the token issuer and the OTP manager.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/addwise/authapi/dbhelper"
	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/oauth"
	"github.com/addwise/authapi/utils"
)

// OTPSender delivers a reset code to an email address.
type OTPSender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// IdentityVerifier checks an external identity assertion.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*oauth.Identity, error)
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

// Session is the result of a successful login of any kind.
type Session struct {
	User  *models.User
	Token string
}

type Auth struct {
	users    *dbhelper.Credentials
	tokens   tokenIssuer
	otps     *OTPManager
	mail     OTPSender
	identity IdentityVerifier

	// concealUnknownEmail makes ForgotPassword succeed silently for emails
	// that have no account, and makes the later reset steps answer them as
	// if no code were pending.
	concealUnknownEmail bool
}

type Option func(*Auth)

func WithConcealUnknownEmail(conceal bool) Option {
	return func(a *Auth) { a.concealUnknownEmail = conceal }
}

func NewAuth(users *dbhelper.Credentials, tokens tokenIssuer, otps *OTPManager, mail OTPSender, identity IdentityVerifier, opts ...Option) *Auth {
	a := &Auth{users: users, tokens: tokens, otps: otps, mail: mail, identity: identity}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Auth) Register(ctx context.Context, name, email, password string) (*Session, error) {
	user, err := a.users.Create(ctx, dbhelper.NewUser{Name: name, Email: email, Password: &password})
	if err != nil {
		return nil, err
	}
	return a.session(user)
}

// Login reports an unknown email and a wrong password identically.
func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !a.users.VerifyPassword(user, password) {
		return nil, utils.ErrInvalidCredentials
	}
	return a.session(user)
}

// GoogleLogin signs in with a Google ID token, creating the account on first
// use. Accounts created this way have no local password.
func (a *Auth) GoogleLogin(ctx context.Context, credential string) (*Session, error) {
	identity, err := a.identity.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	if !identity.EmailVerified {
		return nil, utils.ErrEmailNotVerified
	}

	user, err := a.users.FindByEmail(ctx, identity.Email)
	if errors.Is(err, utils.ErrNotFound) {
		name := identity.Name
		if name == "" {
			name = identity.Email
		}
		user, err = a.users.Create(ctx, dbhelper.NewUser{Name: name, Email: identity.Email, EmailVerified: true})
		if errors.Is(err, utils.ErrDuplicateIdentity) {
			// lost a race with a concurrent first sign-in
			user, err = a.users.FindByEmail(ctx, identity.Email)
		}
	}
	if err != nil {
		return nil, err
	}
	return a.session(user)
}

// ForgotPassword issues a reset code and mails it. The code is stored before
// delivery is attempted, so a failed delivery leaves a valid code behind.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) && a.concealUnknownEmail {
		return nil
	}
	if err != nil {
		return err
	}
	code, err := a.otps.Issue(ctx, user)
	if err != nil {
		return err
	}
	if err := a.mail.SendOTP(ctx, user.Email, code); err != nil {
		return fmt.Errorf("%w: sending otp: %v", utils.ErrExternalService, err)
	}
	return nil
}

// VerifyOTP checks a code without consuming it; ResetPassword checks it again.
func (a *Auth) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := a.resetTarget(ctx, email)
	if err != nil {
		return err
	}
	return a.otps.Verify(user, code)
}

// ResetPassword writes the new hash and clears the code in the same save.
func (a *Auth) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", utils.ErrValidation)
	}
	user, err := a.resetTarget(ctx, email)
	if err != nil {
		return err
	}
	if err := a.otps.Verify(user, code); err != nil {
		return err
	}
	a.otps.Clear(user)
	return a.users.Update(ctx, user, models.UserPatch{Password: &newPassword})
}

// UpdateProfile reloads the user before patching so the write is based on the
// stored record rather than on whatever the caller holds.
func (a *Auth) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := a.users.Update(ctx, user, patch); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Auth) resetTarget(ctx context.Context, email string) (*models.User, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) && a.concealUnknownEmail {
		return nil, utils.ErrNoOtpPending
	}
	return user, err
}

func (a *Auth) session(user *models.User) (*Session, error) {
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
