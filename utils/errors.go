package utils

import "errors"

var (
	// credential store
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")

	// login
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAssertion   = errors.New("invalid identity assertion")
	ErrEmailNotVerified   = errors.New("email not verified by identity provider")

	// tokens
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")

	// password reset
	ErrNoOtpPending = errors.New("no otp pending")
	ErrOtpExpired   = errors.New("otp expired")
	ErrOtpMismatch  = errors.New("otp mismatch")

	// mail, identity provider or store unreachable
	ErrExternalService = errors.New("external service failure")
)
