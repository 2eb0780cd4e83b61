// Package session owns the reservation-session state machine: the
// in-progress selection of showtime, seats, food and discount, the
// bounded payment-review window, and the handoff of a frozen draft to
// submission.  These sentinel errors let handlers distinguish the
// validation failures the flow surfaces as blocking notices.
package session

import "errors"

// ErrNoShowtime is returned when a seat is toggled before any showtime
// has been selected.
var ErrNoShowtime = errors.New("no showtime selected")

// ErrUnknownSeat is returned when the toggled seat id is not part of the
// loaded room catalog.
var ErrUnknownSeat = errors.New("seat not found in room")

// ErrSeatUnavailable is returned when the seat's last-known status is
// anything other than available.
var ErrSeatUnavailable = errors.New("seat is not available")

// ErrTooManySeats is returned when adding a seat would exceed the
// per-session cap of MaxSelectedSeats.
var ErrTooManySeats = errors.New("maximum number of seats selected")

// ErrNoSeats is returned when entering payment review or confirming with
// an empty seat selection.
var ErrNoSeats = errors.New("no seats selected")

// ErrFoodUnavailable is returned when incrementing an item the catalog
// marks as not orderable.
var ErrFoodUnavailable = errors.New("food item is not available")

// ErrSessionExpired is returned by every mutation once the review
// countdown has hit zero.  The session is discarded; the user starts
// over from showtime selection.
var ErrSessionExpired = errors.New("reservation session expired")

// ErrSessionConfirmed is returned by mutations on a session that has
// already been handed off to submission.
var ErrSessionConfirmed = errors.New("reservation session already confirmed")

// ErrNotInReview is returned when confirming a session that never
// entered the payment-review step.
var ErrNotInReview = errors.New("session is not in payment review")
