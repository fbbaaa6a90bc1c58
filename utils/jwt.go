package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the subject of a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies stateless session tokens. Tokens signed with
// the previous secret keep verifying so the secret can be rotated without
// logging everybody out.
type TokenIssuer struct {
	secret    []byte
	oldSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenIssuer(secret, oldSecret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = TOKEN_DURATION
	}
	t := &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
	if oldSecret != "" {
		t.oldSecret = []byte(oldSecret)
	}
	return t
}

// WithClock replaces the time source. Used by tests.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(userID string) (string, error) {
	issuedAt := t.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify returns the user id carried by tokenString. It fails with
// ErrExpiredToken when the signature is good but the TTL elapsed, and with
// ErrInvalidToken for everything else.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims, err := t.parse(tokenString, t.secret)
	if err != nil && t.oldSecret != nil && errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		claims, err = t.parse(tokenString, t.oldSecret)
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (t *TokenIssuer) parse(tokenString string, signingKey []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
