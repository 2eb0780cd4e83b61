package pricing

import (
	"errors"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

// ErrDiscountNotApplicable is returned when the computed discount amount
// is zero or negative, e.g. a small percent on a tiny subtotal that
// floors to nothing, or a food discount on a ticket-only order.  The
// caller must leave the session's stored discount untouched.
var ErrDiscountNotApplicable = errors.New("discount not applicable to this order")

// ErrDiscountCinemaMismatch is returned when the discount carries a
// cinema restriction that does not include the session's cinema.
var ErrDiscountCinemaMismatch = errors.New("discount not valid at this cinema")

// ResolveDiscount validates a discount against the current order
// composition and returns the amount to subtract from the grand total.
//
// The base amount depends on the discount type: ticket and movie
// discounts apply against the seat subtotal, food discounts against the
// food subtotal, combo and anything else against seat + food.  The
// amount is floor(base * percent / 100).  Resolution never mutates
// anything; storing the descriptor and amount is the caller's decision.
func ResolveDiscount(d model.Discount, seatSubtotal, foodSubtotal int64, cinemaID string) (int64, error) {
	if !d.AppliesAt(cinemaID) {
		return 0, ErrDiscountCinemaMismatch
	}
	var base int64
	switch d.Type {
	case model.DiscountTicket, model.DiscountMovie:
		base = seatSubtotal
	case model.DiscountFood:
		base = foodSubtotal
	default: // combo, generic and unknown types apply to the whole order
		base = seatSubtotal + foodSubtotal
	}
	amount := base * int64(d.Percent) / 100
	if amount <= 0 {
		return 0, ErrDiscountNotApplicable
	}
	return amount, nil
}
