// Package booking turns a frozen reservation draft into the ticket the
// backend stores.  The submitter owns payload assembly, the initial
// ticket status and the card-payment follow-up; it never retries on its
// own, the caller keeps the draft and decides.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/hoangtv/cinebook-flow/internal/backend"
	"github.com/hoangtv/cinebook-flow/internal/model"
)

// Ticket statuses as the backend stores them.  Both payment methods
// create the ticket as pending; only a confirmed gateway payment moves
// it to paid.
const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusCancelled      = "cancelled"
)

// TicketAPI is the slice of the upstream client the submitter needs.
type TicketAPI interface {
	CreateTicket(ctx context.Context, payload backend.TicketPayload) (backend.TicketResult, error)
	UpdateTicketStatus(ctx context.Context, ticketID, status string) error
	CreatePaymentIntent(ctx context.Context, orderID string, amount int64) (backend.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, intentID string) error
}

// Submitter assembles and sends ticket-creation requests.
type Submitter struct {
	api TicketAPI
	now func() time.Time // injectable for tests
}

// NewSubmitter returns a Submitter bound to the upstream client.
func NewSubmitter(api TicketAPI) *Submitter {
	return &Submitter{api: api, now: time.Now}
}

// InitialStatus maps a payment method to the status a fresh ticket is
// created with.  Cash and card both start pending; the card path
// upgrades to paid after gateway confirmation.
func InitialStatus(paymentMethod string) string {
	switch paymentMethod {
	case model.PaymentCash, model.PaymentCard:
		return StatusPendingPayment
	default:
		return StatusPendingPayment
	}
}

// newOrderID derives a client-side correlation id from the clock.  The
// backend assigns its own ticket id; this one exists so the order can be
// tracked across screens before that happens.
func (s *Submitter) newOrderID() string {
	return fmt.Sprintf("ORD-%d", s.now().UnixMilli())
}

// BuildPayload converts a draft into the /tickets wire format.  A draft
// without an order id gets a time-derived one.
func (s *Submitter) BuildPayload(draft model.BookingDraft) backend.TicketPayload {
	orderID := draft.OrderID
	if orderID == "" {
		orderID = s.newOrderID()
	}
	seats := make([]backend.TicketSeat, 0, len(draft.Seats))
	for _, seat := range draft.Seats {
		seats = append(seats, backend.TicketSeat{
			SeatID: seat.ID,
			Name:   seat.Name,
			Price:  seat.Price,
		})
	}
	food := make([]backend.TicketFood, 0, len(draft.Food))
	for _, line := range draft.Food {
		food = append(food, backend.TicketFood{
			FoodID:   line.Item.ID,
			Name:     line.Item.Name,
			Price:    line.Item.Price,
			Quantity: line.Quantity,
		})
	}
	return backend.TicketPayload{
		OrderID:           orderID,
		MovieID:           draft.MovieID,
		SelectedSeats:     seats,
		SelectedFoodItems: food,
		SeatTotalPrice:    draft.SeatTotal,
		FoodTotalPrice:    draft.FoodTotal,
		DiscountAmount:    draft.DiscountAmount,
		TotalPrice:        draft.Total,
		Cinema:            draft.Showtime.Cinema.Name,
		Room:              draft.Showtime.Room.Name,
		Showtime:          draft.Showtime.Date + " " + draft.Showtime.Time,
		UserInfo: backend.TicketUserInfo{
			Name:  draft.Contact.Name,
			Email: draft.Contact.Email,
			Phone: draft.Contact.Phone,
		},
		PaymentMethod: draft.PaymentMethod,
		Status:        InitialStatus(draft.PaymentMethod),
	}
}

// Submit creates the ticket upstream.  One attempt, no backoff; the
// returned error carries everything the caller needs to decide on a
// retry, and the draft it still holds is untouched.
func (s *Submitter) Submit(ctx context.Context, draft model.BookingDraft) (backend.TicketResult, error) {
	return s.api.CreateTicket(ctx, s.BuildPayload(draft))
}

// StartCardPayment opens a payment intent with the gateway for an
// already-created ticket's order.
func (s *Submitter) StartCardPayment(ctx context.Context, orderID string, amount int64) (backend.PaymentIntent, error) {
	return s.api.CreatePaymentIntent(ctx, orderID, amount)
}

// CompleteCardPayment confirms the gateway payment and then moves the
// ticket to paid.  The status update is a separate call because the
// ticket store does not watch the gateway; skipping it would leave a
// paid order stuck in pending.
func (s *Submitter) CompleteCardPayment(ctx context.Context, ticketID, intentID string) error {
	if err := s.api.ConfirmPayment(ctx, intentID); err != nil {
		return err
	}
	return s.api.UpdateTicketStatus(ctx, ticketID, StatusPaid)
}
