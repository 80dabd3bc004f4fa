package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func TestAuth_RegisterLoginMeLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodPost, "/auth/register", map[string]string{
		"email": "ann@example.com", "name": "Ann", "password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "ann@example.com", created["email"])
	assert.NotContains(t, created, "password_hash")

	rec = env.doJSONRequest(http.MethodPost, "/auth/register", map[string]string{
		"email": "ann@example.com", "name": "Ann", "password": "long-enough",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "ann@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decode[apperrors.Response](t, rec).Error)

	rec = env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "ann@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var access *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.AccessCookieName {
			access = ck
		}
	}
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.NotEmpty(t, decode[map[string]any](t, rec)["access_token"])

	rec = env.doJSONRequest(http.MethodGet, "/auth/me", nil, &http.Cookie{Name: access.Name, Value: access.Value})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann", decode[map[string]any](t, rec)["name"])

	rec = env.doJSONRequest(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.AccessCookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "nope", "name": "A", "password": "long-enough"}},
		{"short password", map[string]string{"email": "a@example.com", "name": "A", "password": "short"}},
		{"missing name", map[string]string{"email": "a@example.com", "password": "long-enough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSONRequest(http.MethodPost, "/auth/register", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "malformed_request", decode[apperrors.Response](t, rec).Error)
		})
	}
}

func TestAuth_BearerToken(t *testing.T) {
	env := newTestEnv(t)
	ck, _ := env.accessCookie()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+ck.Value)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
