// Package mailer delivers password reset codes by email.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

const OTP_SUBJECT = "Password Reset OTP"

var ErrNotConfigured = errors.New("email configuration missing, check EMAIL_USER and EMAIL_PASSWORD")

var otpTemplate = template.Must(template.New("otp").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #1a73e8; padding: 20px; border-radius: 8px 8px 0 0;">
    <h1 style="color: white; margin: 0; text-align: center;">Password Reset</h1>
  </div>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px;">
    <p style="font-size: 16px; color: #333; margin-bottom: 20px;">
      You have requested to reset your password. Please use the following OTP to proceed:
    </p>
    <div style="background-color: #ffffff; padding: 20px; border-radius: 8px; text-align: center; margin: 20px 0;">
      <h2 style="color: #1a73e8; letter-spacing: 8px; font-size: 32px; margin: 0;">{{.Code}}</h2>
    </div>
    <p style="font-size: 14px; color: #666; margin-top: 20px;">
      This OTP will expire in {{.Minutes}} minutes for security reasons.
      If you didn't request this password reset, please ignore this email.
    </p>
  </div>
</div>
`))

// RenderOTPEmail returns the HTML body for a reset code valid for ttl.
func RenderOTPEmail(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl.Minutes())})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	dialer dialer
	from   string
	ttl    time.Duration
}

func NewSMTPMailer(host string, port int, user, password string, ttl time.Duration) (*SMTPMailer, error) {
	if user == "" || password == "" {
		return nil, ErrNotConfigured
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
		ttl:    ttl,
	}, nil
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := RenderOTPEmail(code, m.ttl)
	if err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", OTP_SUBJECT)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

// Disabled is used when no SMTP credentials are configured; every send fails.
type Disabled struct{}

func (Disabled) SendOTP(context.Context, string, string) error {
	return ErrNotConfigured
}
