package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
)

type contextKey string

const userKey contextKey = "authapi.user"

type tokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// UnauthorizedFunc writes the response for a rejected request.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

// Guard resolves a bearer token to a stored user. It never writes anything.
type Guard struct {
	tokens       tokenVerifier
	users        userFinder
	unauthorized UnauthorizedFunc
}

func NewGuard(tokens tokenVerifier, users userFinder, unauthorized UnauthorizedFunc) *Guard {
	if unauthorized == nil {
		unauthorized = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, utils.NOT_AUTHORIZED_ERROR, http.StatusUnauthorized)
		}
	}
	return &Guard{tokens: tokens, users: users, unauthorized: unauthorized}
}

func GetTokenFromAuthorizationHeader(authHeader string) (string, error) {
	if len(authHeader) == 0 {
		return "", utils.ErrUnauthorized
	}
	bearer_token := strings.Fields(authHeader)
	if len(bearer_token) != 2 || !strings.EqualFold(bearer_token[0], "Bearer") {
		return "", utils.ErrUnauthorized
	}
	return bearer_token[1], nil
}

// Authenticate folds every failure (bad or expired token, deleted user) into
// utils.ErrUnauthorized. Store failures are returned as is.
func (g *Guard) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := g.tokens.Verify(token)
	if err != nil {
		return nil, utils.ErrUnauthorized
	}
	user, err := g.users.FindByID(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Protect lets the request through only with a valid bearer token and makes
// the resolved user available through UserFromContext.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessTokenString, err := GetTokenFromAuthorizationHeader(r.Header.Get("Authorization"))
		if err != nil {
			g.unauthorized(w, r, err)
			return
		}
		user, err := g.Authenticate(r.Context(), accessTokenString)
		if err != nil {
			g.unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
