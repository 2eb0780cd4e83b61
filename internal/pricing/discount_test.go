package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

func TestResolveDiscount_ByType(t *testing.T) {
	const seatSub, foodSub = int64(100000), int64(30000)

	tests := []struct {
		name    string
		dtype   string
		percent int
		want    int64
	}{
		{"ticket applies to seats", model.DiscountTicket, 20, 20000},
		{"movie applies to seats", model.DiscountMovie, 10, 10000},
		{"food applies to food", model.DiscountFood, 10, 3000},
		{"combo applies to total", model.DiscountCombo, 10, 13000},
		{"generic applies to total", model.DiscountGeneric, 10, 13000},
		{"unknown type falls back to total", "mystery", 10, 13000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := model.Discount{Code: "X", Percent: tc.percent, Type: tc.dtype}
			got, err := ResolveDiscount(d, seatSub, foodSub, "c1")
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// The worked example from the payment screen: two 80k seats, one 50k
// combo, 10% off the whole order.
func TestResolveDiscount_ComboExample(t *testing.T) {
	d := model.Discount{Code: "SALE10", Percent: 10, Type: model.DiscountCombo}
	got, err := ResolveDiscount(d, 160000, 50000, "c1")
	assert.NoError(t, err)
	assert.Equal(t, int64(21000), got)
}

func TestResolveDiscount_FloorsFraction(t *testing.T) {
	// 3% of 45 500 = 1 365; 1% of 50 = 0.5 which floors to nothing.
	d := model.Discount{Code: "X", Percent: 3, Type: model.DiscountCombo}
	got, err := ResolveDiscount(d, 45500, 0, "c1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1365), got)

	d.Percent = 1
	_, err = ResolveDiscount(d, 50, 0, "c1")
	assert.ErrorIs(t, err, ErrDiscountNotApplicable)
}

func TestResolveDiscount_ZeroAmountRejected(t *testing.T) {
	// A food discount on a ticket-only order computes to zero and must
	// not be stored.
	d := model.Discount{Code: "FOOD5", Percent: 5, Type: model.DiscountFood}
	_, err := ResolveDiscount(d, 200000, 0, "c1")
	assert.ErrorIs(t, err, ErrDiscountNotApplicable)
}

func TestResolveDiscount_CinemaRestriction(t *testing.T) {
	d := model.Discount{Code: "LOCAL", Percent: 10, Type: model.DiscountCombo, CinemaIDs: []string{"c2", "c3"}}

	_, err := ResolveDiscount(d, 100000, 0, "c1")
	assert.ErrorIs(t, err, ErrDiscountCinemaMismatch)

	got, err := ResolveDiscount(d, 100000, 0, "c3")
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), got)
}

func TestResolveDiscount_EmptyRestrictionMatchesAll(t *testing.T) {
	d := model.Discount{Code: "ANY", Percent: 10, Type: model.DiscountTicket}
	got, err := ResolveDiscount(d, 100000, 0, "whatever")
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), got)
}
