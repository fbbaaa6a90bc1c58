package oauth

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/addwise/authapi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func verifierReturning(payload *idtoken.Payload, err error) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: "client-id",
		validate: func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
			if audience != "client-id" {
				return nil, errors.New("audience mismatch")
			}
			return payload, err
		},
	}
}

func TestVerify_ExtractsIdentity(t *testing.T) {
	v := verifierReturning(&idtoken.Payload{
		Subject: "sub-1",
		Claims: map[string]interface{}{
			"email":          "alice@x.com",
			"name":           "Alice",
			"email_verified": true,
		},
	}, nil)

	id, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, &Identity{Subject: "sub-1", Email: "alice@x.com", Name: "Alice", EmailVerified: true}, id)
}

func TestVerify_StringEmailVerified(t *testing.T) {
	v := verifierReturning(&idtoken.Payload{
		Claims: map[string]interface{}{"email": "a@x.com", "email_verified": "false"},
	}, nil)

	id, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.False(t, id.EmailVerified)
}

func TestVerify_Errors(t *testing.T) {
	tests := []struct {
		name       string
		verifier   *GoogleVerifier
		credential string
		want       error
	}{
		{
			name:       "empty credential",
			verifier:   verifierReturning(nil, nil),
			credential: "  ",
			want:       utils.ErrInvalidAssertion,
		},
		{
			name:       "rejected by google",
			verifier:   verifierReturning(nil, errors.New("idtoken: token expired")),
			credential: "token",
			want:       utils.ErrInvalidAssertion,
		},
		{
			name:       "network failure",
			verifier:   verifierReturning(nil, &net.OpError{Op: "dial", Err: errors.New("refused")}),
			credential: "token",
			want:       utils.ErrExternalService,
		},
		{
			name:       "no email",
			verifier:   verifierReturning(&idtoken.Payload{Claims: map[string]interface{}{}}, nil),
			credential: "token",
			want:       utils.ErrInvalidAssertion,
		},
		{
			name:       "no client id",
			verifier:   &GoogleVerifier{},
			credential: "token",
			want:       utils.ErrExternalService,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(context.Background(), tt.credential)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
