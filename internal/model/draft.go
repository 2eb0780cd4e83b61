package model

// Payment methods accepted at checkout.  Both map to the same initial
// ticket status at creation time; the card path transitions the ticket
// to paid only after the payment gateway confirms.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// BookingDraft is the frozen, submission-ready aggregate handed from a
// confirmed reservation session to the booking submitter.  It is a value
// copy: nothing in it aliases live session state, and it is never
// mutated after handoff.
//
// Fields:
//  OrderID        – client-side correlation id; assigned from the clock
//                   by the submitter when still empty.
//  MovieID        – movie being booked.
//  Showtime       – the selected screening.
//  Seats          – selected seats, ordered by row then number.
//  Food           – selected concession lines.
//  SeatTotal      – sum of seat prices in VND.
//  FoodTotal      – sum of food line subtotals in VND.
//  Discount       – active discount descriptor, nil when none.
//  DiscountAmount – computed discount in VND.
//  Total          – SeatTotal + FoodTotal - DiscountAmount.
//  Contact        – user contact info for the ticket.
//  PaymentMethod  – "cash" or "card".
type BookingDraft struct {
	OrderID        string             // client-side order correlation id
	MovieID        string             // movie identifier
	Showtime       Showtime           // selected screening
	Seats          []Seat             // selected seats
	Food           []SelectedFoodItem // selected food lines
	SeatTotal      int64              // seat subtotal in VND
	FoodTotal      int64              // food subtotal in VND
	Discount       *Discount          // active discount, nil when none
	DiscountAmount int64              // computed discount in VND
	Total          int64              // grand total in VND
	Contact        ContactInfo        // ticket holder contact info
	PaymentMethod  string             // "cash" or "card"
}
