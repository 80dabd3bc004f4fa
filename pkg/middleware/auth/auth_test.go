package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func run(t *testing.T, setup func(r *http.Request)) (string, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	setup(req)
	c := e.NewContext(req, httptest.NewRecorder())

	var seen string
	err := NewAuth(secret).RequireAuth(func(c echo.Context) error {
		seen, _ = c.Get(UserIDKey).(string)
		return c.NoContent(http.StatusOK)
	})(c)
	return seen, err
}

func TestRequireAuth_Cookie(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	token, err := tokens.NewAccessToken(secret, userID, "user", time.Now().Add(time.Minute))
	require.NoError(t, err)

	seen, err := run(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: token})
	})
	require.NoError(t, err)
	assert.Equal(t, userID, seen)
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	token, err := tokens.NewAccessToken(secret, userID, "user", time.Now().Add(time.Minute))
	require.NoError(t, err)

	seen, err := run(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.NoError(t, err)
	assert.Equal(t, userID, seen)
}

func TestRequireAuth_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := tokens.NewAccessToken(secret, uuid.NewString(), "user", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{name: "no token", setup: func(*http.Request) {}},
		{name: "garbage cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: "garbage"})
		}},
		{name: "expired", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
		}},
		{name: "basic auth", setup: func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, err := run(t, tt.setup)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			assert.Empty(t, seen)
		})
	}
}
