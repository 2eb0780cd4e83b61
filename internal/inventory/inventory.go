// Package inventory builds the client-side projection of seat
// availability for one showtime.  It merges two feeds: the per-room seat
// catalog (stable for the life of a session) and the per-showtime status
// feed (authoritative, refreshed on every showtime change).  The
// projection is advisory between refreshes; the backend remains the
// arbiter of who actually gets a seat.
package inventory

import (
	"context"
	"log"
	"sort"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

// SeatSource is the slice of the backend client the loader needs.
type SeatSource interface {
	SeatsByRoom(ctx context.Context, roomID string) ([]model.Seat, error)
	SeatStatusByShowtime(ctx context.Context, showtimeID string) (map[string]string, error)
}

// Row is one row of the seat map, ordered by seat number.
type Row struct {
	Label string       // row letter, first character of the seat names
	Seats []model.Seat // seats in ascending numeric order
}

// View is the merged seat map for one showtime.  Status holds the last
// fetched feed; seats missing from it are available by definition.
type View struct {
	RoomID     string            // room whose catalog is loaded
	ShowtimeID string            // showtime whose status is loaded
	Rows       []Row             // catalog grouped by row
	Status     map[string]string // seat id -> status, absent = available
}

// StatusOf returns the seat's last-known status, defaulting to available
// for seats the feed did not mention.
func (v *View) StatusOf(seatID string) string {
	if v == nil || v.Status == nil {
		return model.StatusAvailable
	}
	if s, ok := v.Status[seatID]; ok && s != "" {
		return s
	}
	return model.StatusAvailable
}

// Selectable reports whether a seat may be added to the selection: only
// seats whose last-known status is exactly "available" qualify.
func (v *View) Selectable(seatID string) bool {
	return v.StatusOf(seatID) == model.StatusAvailable
}

// Seat finds a catalog seat by id.
func (v *View) Seat(seatID string) (model.Seat, bool) {
	if v == nil {
		return model.Seat{}, false
	}
	for _, row := range v.Rows {
		for _, s := range row.Seats {
			if s.ID == seatID {
				return s, true
			}
		}
	}
	return model.Seat{}, false
}

// GroupByRow orders a flat seat catalog into rows.  The row key is the
// first character of the seat name; within a row seats sort by their
// numeric suffix.  Rows sort by label.
func GroupByRow(seats []model.Seat) []Row {
	byRow := make(map[string][]model.Seat)
	for _, s := range seats {
		byRow[s.Row()] = append(byRow[s.Row()], s)
	}
	labels := make([]string, 0, len(byRow))
	for label := range byRow {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	rows := make([]Row, 0, len(labels))
	for _, label := range labels {
		rowSeats := byRow[label]
		sort.Slice(rowSeats, func(i, j int) bool {
			return rowSeats[i].Number() < rowSeats[j].Number()
		})
		rows = append(rows, Row{Label: label, Seats: rowSeats})
	}
	return rows
}

// Loader fetches and merges the two feeds.
type Loader struct {
	src SeatSource
}

// NewLoader returns a Loader on top of the given seat source.
func NewLoader(src SeatSource) *Loader { return &Loader{src: src} }

// Load builds the full view for a showtime.  A catalog failure is
// blocking and returned to the caller (the UI offers retry); a status
// failure degrades to an empty map, i.e. every seat shows available, and
// is only logged — the mandatory pre-submission validation catches any
// seat this optimism gets wrong.
func (l *Loader) Load(ctx context.Context, roomID, showtimeID string) (*View, error) {
	seats, err := l.src.SeatsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	view := &View{
		RoomID:     roomID,
		ShowtimeID: showtimeID,
		Rows:       GroupByRow(seats),
	}
	view.Status = l.fetchStatus(ctx, showtimeID)
	return view, nil
}

// Refresh builds a view for a showtime reusing an already loaded
// catalog, fetching only the status feed.  Used when the showtime
// changes within the same room and after seat conflicts.  It returns a
// fresh View so callers can swap it in atomically.
func (l *Loader) Refresh(ctx context.Context, view *View, showtimeID string) *View {
	return &View{
		RoomID:     view.RoomID,
		ShowtimeID: showtimeID,
		Rows:       view.Rows,
		Status:     l.fetchStatus(ctx, showtimeID),
	}
}

func (l *Loader) fetchStatus(ctx context.Context, showtimeID string) map[string]string {
	status, err := l.src.SeatStatusByShowtime(ctx, showtimeID)
	if err != nil {
		log.Printf("inventory: seat status load failed for showtime %s, treating all seats as available: %v", showtimeID, err)
		return map[string]string{}
	}
	return status
}
