package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// HistoryEntry mirrors the 'ticket_history' table: one row per ticket
// the user booked through this gateway, kept so the history screen
// works without another upstream round trip.
type HistoryEntry struct {
	ID        uint64
	UserID    string
	TicketID  string
	OrderID   string
	MovieID   string
	Cinema    string
	Room      string
	Showtime  string
	SeatNames []string
	Total     int64
	Status    string
	CreatedAt time.Time
}

type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

// Insert appends a booked ticket to the user's history.
func (r *HistoryRepo) Insert(ctx context.Context, e HistoryEntry) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO ticket_history
		 (user_id, ticket_id, order_id, movie_id, cinema, room, showtime, seat_names, total, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.UserID, e.TicketID, e.OrderID, e.MovieID, e.Cinema, e.Room, e.Showtime,
		strings.Join(e.SeatNames, ","), e.Total, e.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns the user's history, newest first.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, ticket_id, order_id, movie_id, cinema, room, showtime,
		        seat_names, total, status, created_at
		 FROM ticket_history WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var seats string
		if err := rows.Scan(&e.ID, &e.UserID, &e.TicketID, &e.OrderID, &e.MovieID,
			&e.Cinema, &e.Room, &e.Showtime, &seats, &e.Total, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		if seats != "" {
			e.SeatNames = strings.Split(seats, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateStatus mirrors an upstream status transition (e.g. pending to
// paid) into the local copy.
func (r *HistoryRepo) UpdateStatus(ctx context.Context, ticketID, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE ticket_history SET status=? WHERE ticket_id=?", status, ticketID)
	return err
}
