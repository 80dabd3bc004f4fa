package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

type Auth struct {
	JWTSecret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{JWTSecret: secret}
}

// RequireAuth accepts an access token from the accessToken cookie or an
// Authorization: Bearer header and stores its subject under UserIDKey.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := accessToken(c)
		if raw == "" {
			return fmt.Errorf("%w: missing access token", apperrors.ErrUnauthorized)
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
			return fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		return next(c)
	}
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(tokens.AccessCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
