package middlewares

import (
	"errors"
	"fmt"
	"net/http"
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// StatusCode reports the panic as an internal server error.
func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// AsPanicError extracts a *PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}
