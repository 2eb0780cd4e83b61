package model

import (
	"strconv"
	"strings"
)

// Seat describes a physical seat in a room.  Seats are named by row
// letter plus number ("A1", "K12"); the row is derived from the first
// character of the name and the position within the row from the numeric
// suffix.  Prices are whole VND.
//
// Fields:
//  ID     – backend identifier of the seat.
//  RoomID – room to which this seat belongs.
//  Name   – row letter + number, e.g. "A1".
//  Price  – seat price in VND.
type Seat struct {
	ID     string // seat identifier
	RoomID string // owning room
	Name   string // row letter + number
	Price  int64  // price in VND
}

// Row returns the row label derived from the first character of the seat
// name.  An empty name yields an empty row.
func (s Seat) Row() string {
	if s.Name == "" {
		return ""
	}
	return s.Name[:1]
}

// Number returns the numeric suffix of the seat name, used for ordering
// seats within a row.  Names without a parseable suffix sort as zero.
func (s Seat) Number() int {
	if s.Name == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimLeft(s.Name, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"))
	if err != nil {
		return 0
	}
	return n
}

// Seat status values as reported by the per-showtime status feed.  Only
// StatusAvailable is selectable; every other value, known or unknown, is
// treated as not selectable regardless of local client state.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusHeld      = "held"
)
