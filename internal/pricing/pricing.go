// Package pricing computes order totals for the reservation flow.  All
// functions are pure: they take the current selection and return numbers,
// so they can be called repeatedly from any step of the flow and always
// agree with a recomputation from scratch.
package pricing

import "github.com/hoangtv/cinebook-flow/internal/model"

// Totals is the price breakdown shown on the payment-review screen and
// carried into the booking draft.  GrandTotal is always
// SeatSubtotal + FoodSubtotal - DiscountAmount.
type Totals struct {
	SeatSubtotal   int64 // sum of selected seat prices in VND
	FoodSubtotal   int64 // sum of food line subtotals in VND
	DiscountAmount int64 // active discount in VND, 0 when none
	GrandTotal     int64 // payable amount in VND
}

// SeatSubtotal sums the prices of the selected seats.
func SeatSubtotal(seats []model.Seat) int64 {
	var sum int64
	for _, s := range seats {
		sum += s.Price
	}
	return sum
}

// FoodSubtotal sums price * quantity over the selected food lines.
func FoodSubtotal(items []model.SelectedFoodItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Subtotal()
	}
	return sum
}

// Compute assembles the full breakdown from the current selection and an
// already-resolved discount amount.
func Compute(seats []model.Seat, food []model.SelectedFoodItem, discountAmount int64) Totals {
	seatSub := SeatSubtotal(seats)
	foodSub := FoodSubtotal(food)
	return Totals{
		SeatSubtotal:   seatSub,
		FoodSubtotal:   foodSub,
		DiscountAmount: discountAmount,
		GrandTotal:     seatSub + foodSub - discountAmount,
	}
}
