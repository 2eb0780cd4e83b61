// Package repository persists the gateway's own data: cached contact
// info and the local ticket history.  Ticket truth lives upstream; these
// tables only hold what the flow needs between launches.  The sentinel
// values let handlers distinguish failure scenarios without inspecting
// driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
