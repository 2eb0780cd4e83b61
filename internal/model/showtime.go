package model

// Showtime is a scheduled screening of a movie in a specific room at a
// specific date and start time.  A showtime is immutable once selected
// for a reservation session; changing date or cinema re-fetches the
// candidate list instead of mutating an existing value.
//
// Fields:
//  ID             – backend identifier of the showtime.
//  MovieID        – movie being screened.
//  Date           – screening date, "2006-01-02".
//  Time           – start time, "15:04".
//  Room           – screening room (normalized from object-or-id form).
//  Cinema         – venue (normalized from object-or-id form).
//  AvailableSeats – derived free-seat count; nil when the backend omits it.
type Showtime struct {
	ID             string // showtime identifier
	MovieID        string // movie identifier
	Date           string // "2006-01-02"
	Time           string // "15:04"
	Room           Room   // screening room
	Cinema         Cinema // venue
	AvailableSeats *int   // free seats, nil when unknown
}
