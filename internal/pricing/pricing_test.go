package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

func seats(prices ...int64) []model.Seat {
	out := make([]model.Seat, 0, len(prices))
	for i, p := range prices {
		out = append(out, model.Seat{ID: string(rune('a' + i)), Name: "A1", Price: p})
	}
	return out
}

func TestCompute_Breakdown(t *testing.T) {
	food := []model.SelectedFoodItem{
		{Item: model.FoodItem{ID: "f1", Name: "Combo", Price: 50000}, Quantity: 1},
	}
	got := Compute(seats(80000, 80000), food, 21000)

	assert.Equal(t, int64(160000), got.SeatSubtotal)
	assert.Equal(t, int64(50000), got.FoodSubtotal)
	assert.Equal(t, int64(21000), got.DiscountAmount)
	assert.Equal(t, int64(189000), got.GrandTotal)
}

func TestCompute_EmptySelection(t *testing.T) {
	got := Compute(nil, nil, 0)
	assert.Zero(t, got.SeatSubtotal)
	assert.Zero(t, got.FoodSubtotal)
	assert.Zero(t, got.GrandTotal)
}

func TestFoodSubtotal_MultipliesQuantity(t *testing.T) {
	food := []model.SelectedFoodItem{
		{Item: model.FoodItem{ID: "f1", Price: 30000}, Quantity: 2},
		{Item: model.FoodItem{ID: "f2", Price: 25000}, Quantity: 3},
	}
	assert.Equal(t, int64(135000), FoodSubtotal(food))
}

// Recomputing from scratch after an arbitrary mutation sequence must
// always satisfy grandTotal = seatSubtotal + foodSubtotal - discount.
func TestCompute_RoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		seats    []model.Seat
		food     []model.SelectedFoodItem
		discount int64
	}{
		{"seats only", seats(80000, 90000, 100000), nil, 0},
		{"food only", nil, []model.SelectedFoodItem{{Item: model.FoodItem{Price: 45000}, Quantity: 2}}, 0},
		{"discounted", seats(120000), []model.SelectedFoodItem{{Item: model.FoodItem{Price: 50000}, Quantity: 1}}, 17000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.seats, tc.food, tc.discount)
			assert.Equal(t, got.SeatSubtotal+got.FoodSubtotal-got.DiscountAmount, got.GrandTotal)
		})
	}
}
