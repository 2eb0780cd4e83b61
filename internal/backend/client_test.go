package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, StaticToken("tok-123"))
}

func TestClient_SendsFixedHeaders(t *testing.T) {
	var gotLang, gotAuth, gotType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.Header.Get("Accept-Language")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`[]`))
	})

	_, err := c.ShowtimesByMovie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "vi", gotLang)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotType)
}

func TestSeatStatusByShowtime_BuildsMap(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seat-status/showtime/st1", r.URL.Path)
		w.Write([]byte(`[
			{"seatId":"s1","status":"reserved"},
			{"seat":"s2","status":"sold"},
			{"seat":{"_id":"s3"},"status":"held"}
		]`))
	})

	got, err := c.SeatStatusByShowtime(context.Background(), "st1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s1": "reserved", "s2": "sold", "s3": "held"}, got)
}

func TestShowtimesByMovie_NormalizesRefs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id":"st1","movieId":"m1","date":"2026-09-01","time":"19:30",
			 "room":{"_id":"r1","name":"Room 1"},"cinema":"c1","availableSeats":42},
			{"_id":"st2","movieId":"m1","date":"2026-09-01","time":"21:00",
			 "room":"r2","cinema":{"_id":"c1","name":"Galaxy Nguyen Du"}}
		]`))
	})

	got, err := c.ShowtimesByMovie(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Room 1", got[0].Room.Name)
	assert.Equal(t, "c1", got[0].Cinema.ID)
	require.NotNil(t, got[0].AvailableSeats)
	assert.Equal(t, 42, *got[0].AvailableSeats)

	assert.Equal(t, "r2", got[1].Room.ID)
	assert.Equal(t, "Galaxy Nguyen Du", got[1].Cinema.Name)
	assert.Nil(t, got[1].AvailableSeats)
}

func TestValidateAvailability_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"seat taken"}`))
	})
	err := c.ValidateAvailability(context.Background(), "st1", []string{"s1"})
	assert.ErrorIs(t, err, ErrSeatConflict)
}

func TestVerifyDiscount_UnknownCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})
	_, err := c.VerifyDiscount(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestVerifyDiscount_CinemaList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{
			"code":"SALE10","name":"Mo man","percent":10,"type":"combo",
			"cinemas":[{"_id":"c1"},{"_id":"c2"}]}}`))
	})
	d, err := c.VerifyDiscount(context.Background(), "SALE10")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, d.CinemaIDs)
	assert.Equal(t, 10, d.Percent)
}

func TestErrors_BackendMessageSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"showtime already started"}`))
	})
	_, err := c.CreateTicket(context.Background(), TicketPayload{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "showtime already started", apiErr.Message)
}

func TestErrors_NonJSONNormalized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	})
	_, err := c.ShowtimesByMovie(context.Background(), "m1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
