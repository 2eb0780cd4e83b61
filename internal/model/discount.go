package model

// Discount types determine which subtotal a percent-off rule is applied
// against: ticket and movie discounts reduce the seat subtotal, food
// discounts the food subtotal, combo and generic discounts the grand
// total.
const (
	DiscountTicket  = "ticket"
	DiscountFood    = "food"
	DiscountCombo   = "combo"
	DiscountMovie   = "movie"
	DiscountGeneric = "generic"
)

// Discount is a named percent-off rule, optionally restricted to one or
// more cinemas.  At most one discount is active on a session; applying a
// new one replaces the previous, and removal resets the stored amount to
// zero.
//
// Fields:
//  Code      – code the user entered, e.g. "SALE10".
//  Name      – display name of the promotion.
//  Percent   – whole percent off, 0..100.
//  Type      – one of the Discount* constants above.
//  CinemaIDs – cinemas the rule is valid at; empty means all cinemas.
type Discount struct {
	Code      string   // promotion code
	Name      string   // display name
	Percent   int      // percent off
	Type      string   // ticket|food|combo|movie|generic
	CinemaIDs []string // restriction, empty = unrestricted
}

// AppliesAt reports whether the discount may be used at the given
// cinema.  An empty restriction list matches every cinema.
func (d Discount) AppliesAt(cinemaID string) bool {
	if len(d.CinemaIDs) == 0 {
		return true
	}
	for _, id := range d.CinemaIDs {
		if id == cinemaID {
			return true
		}
	}
	return false
}
