package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

type fakeSource struct {
	seats     []model.Seat
	seatsErr  error
	status    map[string]string
	statusErr error
}

func (f *fakeSource) SeatsByRoom(context.Context, string) ([]model.Seat, error) {
	return f.seats, f.seatsErr
}

func (f *fakeSource) SeatStatusByShowtime(context.Context, string) (map[string]string, error) {
	return f.status, f.statusErr
}

func catalog() []model.Seat {
	return []model.Seat{
		{ID: "s10", Name: "B10", Price: 90000},
		{ID: "s2", Name: "A2", Price: 80000},
		{ID: "s1", Name: "A1", Price: 80000},
		{ID: "s11", Name: "B2", Price: 90000},
		{ID: "s12", Name: "A10", Price: 80000},
	}
}

func TestGroupByRow_OrdersRowsAndNumbers(t *testing.T) {
	rows := GroupByRow(catalog())
	require.Len(t, rows, 2)

	assert.Equal(t, "A", rows[0].Label)
	names := []string{}
	for _, s := range rows[0].Seats {
		names = append(names, s.Name)
	}
	// numeric ordering, not lexicographic: A10 after A2
	assert.Equal(t, []string{"A1", "A2", "A10"}, names)

	assert.Equal(t, "B", rows[1].Label)
	assert.Equal(t, "B2", rows[1].Seats[0].Name)
	assert.Equal(t, "B10", rows[1].Seats[1].Name)
}

func TestLoad_MergesStatus(t *testing.T) {
	src := &fakeSource{
		seats:  catalog(),
		status: map[string]string{"s1": model.StatusReserved, "s11": model.StatusSold},
	}
	view, err := NewLoader(src).Load(context.Background(), "r1", "st1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusReserved, view.StatusOf("s1"))
	assert.Equal(t, model.StatusSold, view.StatusOf("s11"))
	// seats absent from the feed default to available
	assert.Equal(t, model.StatusAvailable, view.StatusOf("s2"))
	assert.True(t, view.Selectable("s2"))
	assert.False(t, view.Selectable("s1"))
}

func TestLoad_CatalogFailureIsBlocking(t *testing.T) {
	src := &fakeSource{seatsErr: errors.New("boom")}
	_, err := NewLoader(src).Load(context.Background(), "r1", "st1")
	assert.Error(t, err)
}

func TestLoad_StatusFailureDegradesToAvailable(t *testing.T) {
	src := &fakeSource{seats: catalog(), statusErr: errors.New("feed down")}
	view, err := NewLoader(src).Load(context.Background(), "r1", "st1")
	require.NoError(t, err)
	assert.True(t, view.Selectable("s1"))
	assert.True(t, view.Selectable("s11"))
}

func TestRefresh_ReplacesStatusOnly(t *testing.T) {
	src := &fakeSource{seats: catalog(), status: map[string]string{"s1": model.StatusHeld}}
	loader := NewLoader(src)
	view, err := loader.Load(context.Background(), "r1", "st1")
	require.NoError(t, err)
	require.False(t, view.Selectable("s1"))

	src.status = map[string]string{"s2": model.StatusReserved}
	next := loader.Refresh(context.Background(), view, "st2")

	assert.Equal(t, "st2", next.ShowtimeID)
	assert.True(t, next.Selectable("s1"))
	assert.False(t, next.Selectable("s2"))
	// catalog untouched and shared
	_, ok := next.Seat("s10")
	assert.True(t, ok)
	// the original view is left alone
	assert.Equal(t, "st1", view.ShowtimeID)
	assert.False(t, view.Selectable("s1"))
}

func TestStatusOf_UnknownStatusNotSelectable(t *testing.T) {
	src := &fakeSource{seats: catalog(), status: map[string]string{"s1": "maintenance"}}
	view, err := NewLoader(src).Load(context.Background(), "r1", "st1")
	require.NoError(t, err)
	assert.False(t, view.Selectable("s1"))
}
