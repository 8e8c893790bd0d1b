package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected business outcomes. Callers match with
// errors.Is and map to transport-level responses; none of these are
// process-fatal.
var (
	// ErrNotFound indicates the referenced product, order or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the actor lacks the required role. The message
	// is deliberately uniform so it never reveals whether the target
	// resource exists.
	ErrForbidden = errors.New("forbidden")

	// ErrOutOfStock indicates a requested quantity exceeds the live stock
	// level, or the product is inactive.
	ErrOutOfStock = errors.New("out of stock")

	// ErrStockConflict indicates a concurrent checkout won the race for the
	// remaining stock during reservation. Recoverable by retry with an
	// updated cart.
	ErrStockConflict = errors.New("stock conflict")

	// ErrEmptyCart indicates checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidTransition indicates an order status change outside the
	// lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError indicates malformed input, recoverable by the caller
// correcting the named field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
