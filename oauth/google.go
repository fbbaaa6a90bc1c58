// Package oauth verifies identity assertions issued by external providers.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/addwise/authapi/utils"
	"google.golang.org/api/idtoken"
)

// Identity is what a verified assertion tells us about the caller.
type Identity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google Sign-In ID tokens against Google's published
// keys and the configured client id.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: empty credential", utils.ErrInvalidAssertion)
	}
	if g.clientID == "" {
		return nil, fmt.Errorf("%w: google client id not configured", utils.ErrExternalService)
	}

	payload, err := g.validate(ctx, credential, g.clientID)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return nil, fmt.Errorf("%w: %v", utils.ErrExternalService, err)
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidAssertion, err)
	}

	identity := &Identity{
		Subject:       payload.Subject,
		Email:         stringClaim(payload.Claims, "email"),
		Name:          stringClaim(payload.Claims, "name"),
		EmailVerified: boolClaim(payload.Claims, "email_verified"),
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("%w: no email claim", utils.ErrInvalidAssertion)
	}
	return identity, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

// Google has sent email_verified both as a JSON bool and as a string.
func boolClaim(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
