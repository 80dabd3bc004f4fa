package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

// ErrorHandler renders every failed request as apperrors.Response.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := apperrors.HTTPStatus(err)
	body := apperrors.ToResponse(err)

	var he *echo.HTTPError
	if errors.As(err, &he) && status == http.StatusInternalServerError {
		status = he.Code
		body = apperrors.Response{
			Error:   codeForStatus(he.Code),
			Message: fmt.Sprint(he.Message),
		}
		if status >= 500 {
			body.Message = "internal server error"
		}
	}

	if status >= 500 {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusBadRequest:
		return "malformed_request"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	default:
		if status >= 500 {
			return "internal"
		}
		return "error"
	}
}

// fail logs the failure under event and writes the error response. Client
// errors log at warn, everything else at error.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", apperrors.Code(err), "error", err)
	}
	return c.JSON(status, apperrors.ToResponse(err))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid body", apperrors.ErrMalformedRequest)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedRequest, err)
	}
	return nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a uuid", apperrors.ErrMalformedRequest, name)
	}
	return id, nil
}

// userID returns the authenticated user stored by RequireAuth.
func userID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(middleware.UserIDKey).(string)
	if !ok || s == "" {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a uuid", apperrors.ErrUnauthorized)
	}
	return id, nil
}
