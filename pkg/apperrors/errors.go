// Package apperrors defines the error kinds surfaced by the storefront and
// their mapping onto HTTP responses.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrOutOfStock         = errors.New("out of stock")
	ErrMalformedRequest   = errors.New("malformed request")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type kind struct {
	err    error
	code   string
	status int
}

var kinds = []kind{
	{ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{ErrNotFound, "not_found", http.StatusNotFound},
	{ErrInvalidQuantity, "invalid_quantity", http.StatusBadRequest},
	{ErrOutOfStock, "out_of_stock", http.StatusConflict},
	{ErrMalformedRequest, "malformed_request", http.StatusBadRequest},
	{ErrConflict, "conflict", http.StatusConflict},
	{ErrInvalidCredentials, "invalid_credentials", http.StatusUnauthorized},
}

// Code returns the stable machine-readable code of err, "internal" for
// anything that is not one of the known kinds and "ok" for nil.
func Code(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return "internal"
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing text for err. Unknown errors are not
// echoed back to the caller.
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// Response is the JSON body written for a failed request.
type Response struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func ToResponse(err error) Response {
	return Response{Error: Code(err), Message: Message(err)}
}
