package backend

import (
	"context"
	"encoding/json"
	"fmt"
)

// TicketSeat is a seat line inside the ticket-creation payload.
type TicketSeat struct {
	SeatID string `json:"seatId"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
}

// TicketFood is a food line inside the ticket-creation payload.
type TicketFood struct {
	FoodID   string `json:"foodId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// TicketUserInfo is the contact block the ticket endpoint expects.
type TicketUserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TicketPayload is the wire format of POST /tickets, assembled by the
// booking submitter from a frozen draft.
type TicketPayload struct {
	OrderID           string           `json:"orderId"`
	MovieID           string           `json:"movieId"`
	SelectedSeats     []TicketSeat     `json:"selectedSeats"`
	SelectedFoodItems []TicketFood     `json:"selectedFoodItems"`
	SeatTotalPrice    int64            `json:"seatTotalPrice"`
	FoodTotalPrice    int64            `json:"foodTotalPrice"`
	DiscountAmount    int64            `json:"discountAmount"`
	TotalPrice        int64            `json:"totalPrice"`
	Cinema            string           `json:"cinema"`
	Room              string           `json:"room"`
	Showtime          string           `json:"showtime"`
	UserInfo          TicketUserInfo   `json:"userInfo"`
	PaymentMethod     string           `json:"paymentMethod"`
	Status            string           `json:"status"`
}

// TicketResult is what the backend returns after creating a ticket.
type TicketResult struct {
	TicketID string // backend-assigned ticket identifier
	OrderID  string // echoed client order id
}

// CreateTicket posts the assembled booking payload.  It does not retry:
// submission failures are surfaced to the caller, who keeps the draft in
// memory so the user can retry without re-entering anything.
func (c *Client) CreateTicket(ctx context.Context, payload TicketPayload) (TicketResult, error) {
	var env envelope
	if err := c.post(ctx, "/tickets", payload, &env); err != nil {
		return TicketResult{}, err
	}
	var data struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		OrderID string `json:"orderId"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return TicketResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	id := data.MongoID
	if id == "" {
		id = data.ID
	}
	orderID := data.OrderID
	if orderID == "" {
		orderID = payload.OrderID
	}
	return TicketResult{TicketID: id, OrderID: orderID}, nil
}

// UpdateTicketStatus transitions a ticket's status, e.g. to "paid" after
// the payment gateway confirms an online payment.
func (c *Client) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, "PATCH", "/tickets/"+ticketID, body, nil)
}

// PaymentIntent is the opaque gateway handoff returned by
// POST /payment/create-payment-intent.
type PaymentIntent struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent starts an online card payment for the given order
// amount.  The gateway internals are an external collaborator; the
// response is passed through to the paying client untouched.
func (c *Client) CreatePaymentIntent(ctx context.Context, orderID string, amount int64) (PaymentIntent, error) {
	body := map[string]any{"orderId": orderID, "amount": amount}
	var env envelope
	if err := c.post(ctx, "/payment/create-payment-intent", body, &env); err != nil {
		return PaymentIntent{}, err
	}
	var intent PaymentIntent
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &intent); err != nil {
			return PaymentIntent{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return intent, nil
}

// ConfirmPayment reports a completed gateway payment for an intent.
func (c *Client) ConfirmPayment(ctx context.Context, intentID string) error {
	body := map[string]string{"intentId": intentID}
	var env envelope
	if err := c.post(ctx, "/payment/confirm-payment", body, &env); err != nil {
		return err
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "payment not confirmed"
		}
		return &APIError{Status: 400, Message: msg}
	}
	return nil
}
