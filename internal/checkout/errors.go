package checkout

import "fmt"

// The pipeline classifies every failure into one of five user-facing kinds.
// Side-effect failures are the sixth kind and are logged only, never surfaced.

// ValidationError covers pre-write rejections: closed store, empty cart,
// missing address fields, invalid coupon, disabled payment method.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// StockError means the inventory validator rejected the cart.
type StockError struct {
	Reason string
}

func (e *StockError) Error() string { return e.Reason }

// InternalError wraps an infrastructure failure before any order write:
// customer resolution, coupon lookup, address resolution dying on storage.
// Nothing was written, so no compensation runs.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return "could not process your order, please try again" }
func (e *InternalError) Unwrap() error { return e.Err }

// GatewayError means payment-session creation failed; nothing was written and
// the customer may pick another method.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "payment gateway unavailable" }
func (e *GatewayError) Unwrap() error { return e.Err }

// CommitError wraps a failed order write. The user-facing message is generic;
// the underlying cause never leaks storage internals to the customer.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string { return "could not complete your order, please try again" }
func (e *CommitError) Unwrap() error { return e.Err }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
