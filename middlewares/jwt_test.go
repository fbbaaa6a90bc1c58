package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func TestGetTokenFromAuthorizationHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer abc", want: "abc"},
		{header: "", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer a b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := GetTokenFromAuthorizationHeader(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, utils.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	now := time.Now()
	tokens := utils.NewTokenIssuer("secret", "", time.Hour).WithClock(func() time.Time { return now })
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", Email: "a@x.com"}}}
	guard := NewGuard(tokens, users, nil)
	ctx := context.Background()

	valid, err := tokens.Issue("u1")
	require.NoError(t, err)
	ghost, err := tokens.Issue("ghost")
	require.NoError(t, err)

	user, err := guard.Authenticate(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = guard.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = guard.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	now = now.Add(2 * time.Hour)
	_, err = guard.Authenticate(ctx, valid)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", "", time.Hour)
	guard := NewGuard(tokens, &fakeUsers{err: errors.New("db down")}, nil)

	tok, err := tokens.Issue("u1")
	require.NoError(t, err)

	_, err = guard.Authenticate(context.Background(), tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, utils.ErrUnauthorized)
}

func TestProtect(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", "", time.Hour)
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1"}}}
	guard := NewGuard(tokens, users, nil)

	h := guard.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(user.ID))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := tokens.Issue("u1")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
