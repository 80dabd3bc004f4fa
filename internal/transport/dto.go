package transport

import (
	"fmt"
	"math"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
)

// Quantities arrive as JSON numbers so that 1.5 is reported as an invalid
// quantity rather than a malformed body.
type AddItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	Quantity  *float64 `json:"quantity"   validate:"required"`
}

type UpdateItemRequest struct {
	Quantity *float64 `json:"quantity" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Name     string `json:"name"     validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ParseQuantity turns a decoded JSON quantity into a line item quantity.
func ParseQuantity(q *float64) (int, error) {
	if q == nil {
		return 0, fmt.Errorf("quantity is required: %w", apperrors.ErrMalformedRequest)
	}
	v := *q
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("quantity %v is not an integer: %w", v, apperrors.ErrInvalidQuantity)
	}
	if v < 1 || v > math.MaxInt32 {
		return 0, fmt.Errorf("quantity %v out of range: %w", v, apperrors.ErrInvalidQuantity)
	}
	return int(v), nil
}
