// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedQueue is the durable queue booking.confirmed events
// travel on; the publisher and the consumer both declare it.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a ticket has been created
// upstream for a confirmed reservation session. It contains enough
// information for downstream consumers to log, notify, or trigger
// analytics without querying the upstream API again.
type BookingConfirmedEvent struct {
    OrderID       string   `json:"order_id"`
    TicketID      string   `json:"ticket_id"`
    UserID        string   `json:"user_id"`
    MovieID       string   `json:"movie_id"`
    CinemaName    string   `json:"cinema_name"`
    RoomName      string   `json:"room_name"`
    Showtime      string   `json:"showtime"`
    SeatNames     []string `json:"seats"`
    TotalVND      int64    `json:"total_vnd"`
    PaymentMethod string   `json:"payment_method"`
    Status        string   `json:"status"`
    ConfirmedAt   string   `json:"confirmed_at"`
}
