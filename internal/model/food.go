package model

// FoodItem is a concession catalog entry.  Availability is a backend
// flag; unavailable items cannot be added to a session.
type FoodItem struct {
	ID        string // item identifier
	Name      string // display name, e.g. "Combo 1"
	Price     int64  // unit price in VND
	Category  string // e.g. "combo", "drink", "snack"
	Available bool   // whether the item can currently be ordered
}

// SelectedFoodItem pairs a catalog item with an ordered quantity.
// Quantity moves one step per tap; an entry whose quantity reaches zero
// is removed from the selection entirely.
type SelectedFoodItem struct {
	Item     FoodItem // catalog item
	Quantity int      // ordered quantity, always >= 1 while present
}

// Subtotal returns price * quantity for this line.
func (s SelectedFoodItem) Subtotal() int64 {
	return s.Item.Price * int64(s.Quantity)
}
