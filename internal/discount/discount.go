package discount

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlankCode is returned when the submitted code is empty or whitespace.
// A blank submission is a no-op: it must not clear a discount that is
// already active.
var ErrBlankCode = errors.New("blank discount code")

// defaultCodes maps discount codes to fractional rates. The table is static
// reference data; adding a code is a code change, not configuration.
var defaultCodes = map[string]float64{
	"IMRU2": 0.20,
}

// Result is the outcome of a code application, carrying the user-facing
// message. Rate is the rate the cart should adopt: the table rate on
// success, zero on failure (an invalid code clears any active discount
// rather than leaving it to linger).
type Result struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Amount  float64 `json:"amount,omitempty"`
	Rate    float64 `json:"-"`
}

// Resolver validates user-supplied codes against the static code table.
type Resolver struct {
	codes map[string]float64
}

// NewResolver creates a resolver over the built-in code table.
func NewResolver() *Resolver {
	return &Resolver{codes: defaultCodes}
}

// Apply normalizes and looks up a code. subtotal is the current raw cart
// subtotal, used only to report the discount amount in the success result.
// Codes are case-insensitive; applying a second valid code replaces the
// previous rate outright, rates never stack.
func (r *Resolver) Apply(code string, subtotal float64) (Result, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Result{}, ErrBlankCode
	}

	normalized := strings.ToUpper(trimmed)
	rate, ok := r.codes[normalized]
	if !ok {
		return Result{
			Success: false,
			Message: "Invalid discount code",
		}, nil
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Discount applied: %s (%.0f%%)", normalized, rate*100),
		Amount:  subtotal * rate,
		Rate:    rate,
	}, nil
}
