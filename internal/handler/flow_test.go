package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangtv/cinebook-flow/internal/backend"
	"github.com/hoangtv/cinebook-flow/internal/booking"
	"github.com/hoangtv/cinebook-flow/internal/inventory"
	"github.com/hoangtv/cinebook-flow/internal/model"
	"github.com/hoangtv/cinebook-flow/internal/session"
)

// fakeUpstream stands in for the remote booking backend across all
// handler dependencies.
type fakeUpstream struct {
	validateErr error
	ticketErr   error
	created     int
	seatsLoads  int
	lastTicket  backend.TicketPayload
}

func (f *fakeUpstream) ShowtimesByMovie(_ context.Context, movieID string) ([]model.Showtime, error) {
	room := model.Room{ID: "r1", Name: "Room 1", CinemaID: "c1"}
	cinema := model.Cinema{ID: "c1", Name: "Galaxy Nguyen Du"}
	return []model.Showtime{
		{ID: "st1", MovieID: movieID, Date: "2026-09-01", Time: "19:30", Room: room, Cinema: cinema},
		{ID: "st2", MovieID: movieID, Date: "2026-09-01", Time: "21:30", Room: room, Cinema: cinema},
	}, nil
}

func (f *fakeUpstream) SeatsByRoom(_ context.Context, roomID string) ([]model.Seat, error) {
	f.seatsLoads++
	seats := make([]model.Seat, 0, 10)
	for i := 1; i <= 10; i++ {
		seats = append(seats, model.Seat{
			ID:     fmt.Sprintf("s%d", i),
			RoomID: roomID,
			Name:   fmt.Sprintf("A%d", i),
			Price:  80000,
		})
	}
	return seats, nil
}

func (f *fakeUpstream) SeatStatusByShowtime(context.Context, string) (map[string]string, error) {
	return map[string]string{"s3": model.StatusReserved}, nil
}

func (f *fakeUpstream) FoodItems(context.Context) ([]model.FoodItem, error) {
	return []model.FoodItem{
		{ID: "f1", Name: "Combo 1", Price: 50000, Category: "combo", Available: true},
		{ID: "f2", Name: "Bap", Price: 30000, Category: "snack", Available: false},
	}, nil
}

func (f *fakeUpstream) VerifyDiscount(_ context.Context, code string) (model.Discount, error) {
	if code != "SALE10" {
		return model.Discount{}, backend.ErrDiscountNotFound
	}
	return model.Discount{Code: "SALE10", Name: "Sale 10%", Percent: 10, Type: model.DiscountCombo}, nil
}

func (f *fakeUpstream) ValidateAvailability(context.Context, string, []string) error {
	return f.validateErr
}

func (f *fakeUpstream) CreateTicket(_ context.Context, p backend.TicketPayload) (backend.TicketResult, error) {
	if f.ticketErr != nil {
		return backend.TicketResult{}, f.ticketErr
	}
	f.created++
	f.lastTicket = p
	return backend.TicketResult{TicketID: "t-1", OrderID: p.OrderID}, nil
}

func (f *fakeUpstream) UpdateTicketStatus(context.Context, string, string) error { return nil }

func (f *fakeUpstream) CreatePaymentIntent(context.Context, string, int64) (backend.PaymentIntent, error) {
	return backend.PaymentIntent{IntentID: "pi-1", ClientSecret: "sec"}, nil
}

func (f *fakeUpstream) ConfirmPayment(context.Context, string) error { return nil }

type flowEnv struct {
	e        *echo.Echo
	store    *session.Store
	upstream *fakeUpstream
	sessions *SessionHandler
	checkout *CheckoutHandler
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	up := &fakeUpstream{}
	store := session.NewStore()
	loader := inventory.NewLoader(up)
	return &flowEnv{
		e:        e,
		store:    store,
		upstream: up,
		sessions: NewSessionHandler(store, loader, up, time.Minute),
		checkout: NewCheckoutHandler(store, up, loader, booking.NewSubmitter(up), nil, nil, nil),
	}
}

// call invokes a handler with a JSON body, path params and an
// authenticated user in context, returning the recorded response.
func (env *flowEnv) call(t *testing.T, h echo.HandlerFunc, method, body string, params map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	c.Set("user_id", "u1")
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	err := h(c)
	if err != nil {
		env.e.HTTPErrorHandler(err, c)
	}
	var out map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

// startSession walks a fresh session to the seats-picked state.
func (env *flowEnv) startSession(t *testing.T, seats ...string) string {
	t.Helper()
	rec, out := env.call(t, env.sessions.Create, http.MethodPost,
		`{"movieId":"m1","cinemaId":"c1","cinemaName":"Galaxy Nguyen Du"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := out["id"].(string)

	rec, _ = env.call(t, env.sessions.SelectShowtime, http.MethodPut,
		`{"showtimeId":"st1"}`, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, seat := range seats {
		rec, _ = env.call(t, env.sessions.ToggleSeat, http.MethodPost,
			fmt.Sprintf(`{"seatId":%q}`, seat), map[string]string{"id": id})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	return id
}

func TestFlow_CreateAndSelectShowtime(t *testing.T) {
	env := newFlowEnv(t)

	rec, out := env.call(t, env.sessions.Create, http.MethodPost,
		`{"movieId":"m1","cinemaId":"c1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(session.StateBrowsing), out["state"])

	id := out["id"].(string)
	rec, out = env.call(t, env.sessions.SelectShowtime, http.MethodPut,
		`{"showtimeId":"st1"}`, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.StateShowtimeSelected), out["state"])

	rec, out = env.call(t, env.sessions.SelectShowtime, http.MethodPut,
		`{"showtimeId":"nope"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "showtime not found", out["error"])
}

func TestFlow_ToggleSeatRules(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")

	// the status feed marks s3 reserved; toggling it must 409
	rec, out := env.call(t, env.sessions.ToggleSeat, http.MethodPost,
		`{"seatId":"s3"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seat is no longer available", out["error"])

	// unknown seat is a 400
	rec, _ = env.call(t, env.sessions.ToggleSeat, http.MethodPost,
		`{"seatId":"zz"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlow_FoodAndDiscountTotals(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1", "s2")

	rec, out := env.call(t, env.sessions.SetFood, http.MethodPost,
		`{"foodId":"f1","delta":1}`, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	totals := out["totals"].(map[string]any)
	assert.Equal(t, float64(160000), totals["seatSubtotal"])
	assert.Equal(t, float64(50000), totals["foodSubtotal"])

	// sold-out items are rejected
	rec, _ = env.call(t, env.sessions.SetFood, http.MethodPost,
		`{"foodId":"f2","delta":1}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 10% off 210000 = 21000
	rec, out = env.call(t, env.sessions.ApplyDiscount, http.MethodPost,
		`{"code":"SALE10"}`, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	totals = out["totals"].(map[string]any)
	assert.Equal(t, float64(21000), totals["discountAmount"])
	assert.Equal(t, float64(189000), totals["grandTotal"])

	rec, _ = env.call(t, env.sessions.ApplyDiscount, http.MethodPost,
		`{"code":"NOPE"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = env.call(t, env.sessions.RemoveDiscount, http.MethodDelete,
		``, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	totals = out["totals"].(map[string]any)
	assert.Equal(t, float64(0), totals["discountAmount"])
}

func TestFlow_ReviewAndConfirm(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1", "s2")

	rec, out := env.call(t, env.sessions.EnterReview, http.MethodPost,
		``, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.StatePaymentReview), out["state"])
	assert.Greater(t, out["remainingSeconds"].(float64), float64(0))

	rec, out = env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t-1", out["ticketId"])
	assert.Equal(t, booking.StatusPendingPayment, out["status"])
	assert.Equal(t, float64(160000), out["total"])

	// the session is frozen; further mutation conflicts
	rec, _ = env.call(t, env.sessions.ToggleSeat, http.MethodPost,
		`{"seatId":"s4"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFlow_ConfirmWithoutReviewRejected(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")

	rec, out := env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "proceed to payment review first", out["error"])
}

func TestFlow_ConflictClearsSelection(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1", "s2")
	env.call(t, env.sessions.EnterReview, http.MethodPost, ``, map[string]string{"id": id})

	env.upstream.validateErr = backend.ErrSeatConflict
	rec, out := env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "some seats were just taken, please pick again", out["error"])

	// the selection was dropped and the map refreshed for a re-pick
	rec, out = env.call(t, env.sessions.Get, http.MethodGet, ``, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.StateShowtimeSelected), out["state"])
	assert.Empty(t, out["seats"])
}

func TestFlow_ValidateTransportFailureKeepsSelection(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1", "s2")
	env.call(t, env.sessions.EnterReview, http.MethodPost, ``, map[string]string{"id": id})

	// an unreachable backend is not a seat conflict: surface it and
	// leave the session exactly where it was
	env.upstream.validateErr = backend.ErrUnavailable
	rec, out := env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "booking service is unavailable, please try again", out["error"])

	rec, out = env.call(t, env.sessions.Get, http.MethodGet, ``, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.StatePaymentReview), out["state"])
	assert.Len(t, out["seats"], 2)

	// once the backend is back the same confirm goes through
	env.upstream.validateErr = nil
	rec, _ = env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestFlow_SameRoomShowtimeChangeReloadsStatusOnly(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")
	require.Equal(t, 1, env.upstream.seatsLoads)

	// st2 plays in the same room: no catalog refetch, selection cleared
	rec, out := env.call(t, env.sessions.SelectShowtime, http.MethodPut,
		`{"showtimeId":"st2"}`, map[string]string{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.StateShowtimeSelected), out["state"])
	assert.Empty(t, out["seats"])
	assert.Equal(t, 1, env.upstream.seatsLoads)

	// the status feed still applies on the new showtime
	rec, _ = env.call(t, env.sessions.ToggleSeat, http.MethodPost,
		`{"seatId":"s3"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFlow_RetryUsesCorrectedContact(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")
	env.call(t, env.sessions.EnterReview, http.MethodPost, ``, map[string]string{"id": id})

	env.upstream.ticketErr = backend.ErrUnavailable
	rec, _ := env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"typo@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// the corrected contact must end up on the submitted ticket
	env.upstream.ticketErr = nil
	rec, _ = env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`,
		map[string]string{"id": id})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "an@example.com", env.upstream.lastTicket.UserInfo.Email)
}

func TestFlow_SubmitFailureKeepsDraftForRetry(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")
	env.call(t, env.sessions.EnterReview, http.MethodPost, ``, map[string]string{"id": id})

	body := `{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"cash"}`
	env.upstream.ticketErr = backend.ErrUnavailable
	rec, _ := env.call(t, env.checkout.Confirm, http.MethodPost, body, map[string]string{"id": id})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// retrying after the outage submits the retained draft
	env.upstream.ticketErr = nil
	rec, out := env.call(t, env.checkout.Confirm, http.MethodPost, body, map[string]string{"id": id})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t-1", out["ticketId"])
	assert.Equal(t, 1, env.upstream.created)
}

func TestFlow_CardConfirmReturnsPaymentHandoff(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")
	env.call(t, env.sessions.EnterReview, http.MethodPost, ``, map[string]string{"id": id})

	rec, out := env.call(t, env.checkout.Confirm, http.MethodPost,
		`{"contact":{"name":"An","email":"an@example.com","phone":"0900000000"},"paymentMethod":"card"}`,
		map[string]string{"id": id})
	require.Equal(t, http.StatusCreated, rec.Code)
	payment, ok := out["payment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pi-1", payment["intentId"])
}

func TestFlow_AppStateValidation(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")

	rec, _ := env.call(t, env.sessions.AppState, http.MethodPost,
		`{"state":"background"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.call(t, env.sessions.AppState, http.MethodPost,
		`{"state":"sideways"}`, map[string]string{"id": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlow_SessionOwnership(t *testing.T) {
	env := newFlowEnv(t)
	id := env.startSession(t, "s1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	c.Set("user_id", "intruder")
	c.SetParamNames("id")
	c.SetParamValues(id)
	err := env.sessions.Get(c)
	if err != nil {
		env.e.HTTPErrorHandler(err, c)
	}
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
