// This file defines the error taxonomy for upstream calls.  Transport
// failures, timeouts and non-JSON bodies are normalized into a single
// ErrUnavailable category; errors the backend reports explicitly keep
// their message so handlers can surface it verbatim.
package backend

import (
	"errors"
	"fmt"
)

// ErrUnavailable covers every transport-level failure: connection
// refused, timeout, malformed response body.  Handlers map it to one
// generic user-facing message and retry only on explicit user action.
var ErrUnavailable = errors.New("booking service unavailable")

// ErrSeatConflict is returned by the availability validation when one or
// more of the requested seats is no longer free.  The caller resolves it
// by refreshing seat status and clearing the current selection.
var ErrSeatConflict = errors.New("seats no longer available")

// ErrDiscountNotFound is returned when a discount code does not resolve
// to any promotion.
var ErrDiscountNotFound = errors.New("discount code not found")

// APIError carries an error message the backend sent in a well-formed
// response.  Its message is user-displayable and may be surfaced
// verbatim, e.g. a ticket-creation rejection reason.
type APIError struct {
	Status  int    // HTTP status of the response
	Message string // backend-provided message
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}
