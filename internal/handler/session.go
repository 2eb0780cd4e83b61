package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoangtv/cinebook-flow/internal/inventory"
	"github.com/hoangtv/cinebook-flow/internal/model"
	"github.com/hoangtv/cinebook-flow/internal/session"
)

// sessionAPI is the slice of the upstream client the session endpoints
// need: showtime lookup for selection, the food catalog for quantity
// changes, and discount verification.
type sessionAPI interface {
	ShowtimesByMovie(ctx context.Context, movieID string) ([]model.Showtime, error)
	FoodItems(ctx context.Context) ([]model.FoodItem, error)
	VerifyDiscount(ctx context.Context, code string) (model.Discount, error)
}

// SessionHandler drives the reservation flow: create a session, select
// a showtime, toggle seats, adjust food, apply a discount and enter
// payment review.  Every route requires a bearer token; a session is
// only reachable by the user who created it.
type SessionHandler struct {
	Store        *session.Store
	Loader       *inventory.Loader
	API          sessionAPI
	ReviewWindow time.Duration
}

// NewSessionHandler constructs a SessionHandler.  All dependencies must
// be non-nil; a zero ReviewWindow falls back to the default 5 minutes.
func NewSessionHandler(store *session.Store, loader *inventory.Loader, api sessionAPI, reviewWindow time.Duration) *SessionHandler {
	if store == nil || loader == nil || api == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	if reviewWindow <= 0 {
		reviewWindow = session.ReviewWindow
	}
	return &SessionHandler{Store: store, Loader: loader, API: api, ReviewWindow: reviewWindow}
}

// Create handles POST /v1/sessions.  The body names the movie and the
// cinema the user is booking at; the session starts in the browsing
// state with no showtime.
func (h *SessionHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		MovieID    string `json:"movieId" validate:"required"`
		CinemaID   string `json:"cinemaId" validate:"required"`
		CinemaName string `json:"cinemaName"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	s, err := h.Store.Create(userID, body.MovieID, model.Cinema{ID: body.CinemaID, Name: body.CinemaName})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	return c.JSON(http.StatusCreated, renderSnapshot(s.Snapshot()))
}

// Get handles GET /v1/sessions/:id and returns the full read model:
// state, selection, totals and the remaining review seconds.
func (h *SessionHandler) Get(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// SelectShowtime handles PUT /v1/sessions/:id/showtime.  It resolves
// the showtime against the movie's schedule and installs the seat view
// on the session: a different room loads catalog and status, the same
// room reloads status only.  Changing showtime drops the seat selection
// and discount either way.
func (h *SessionHandler) SelectShowtime(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	var body struct {
		ShowtimeID string `json:"showtimeId" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	ctx := upstreamCtx(c)
	showtimes, err := h.API.ShowtimesByMovie(ctx, s.MovieID())
	if err != nil {
		return respondError(c, err)
	}
	var chosen *model.Showtime
	for i := range showtimes {
		if showtimes[i].ID == body.ShowtimeID {
			chosen = &showtimes[i]
			break
		}
	}
	if chosen == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}

	// Same room: the catalog is already loaded, only the status feed
	// changes.  A different room needs the full load.
	var view *inventory.View
	if cur := s.View(); cur != nil && cur.RoomID == chosen.Room.ID {
		view = h.Loader.Refresh(ctx, cur, chosen.ID)
	} else {
		view, err = h.Loader.Load(ctx, chosen.Room.ID, chosen.ID)
		if err != nil {
			return respondError(c, err)
		}
	}
	if err := s.SelectShowtime(*chosen, view); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// ToggleSeat handles POST /v1/sessions/:id/seats/toggle.
func (h *SessionHandler) ToggleSeat(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	var body struct {
		SeatID string `json:"seatId" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	if err := s.ToggleSeat(body.SeatID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// SetFood handles POST /v1/sessions/:id/food.  delta moves the line's
// quantity one step per tap (negative to remove); the item is resolved
// against the live concession catalog so availability is current.
func (h *SessionHandler) SetFood(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	var body struct {
		FoodID string `json:"foodId" validate:"required"`
		Delta  int    `json:"delta" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	items, err := h.API.FoodItems(upstreamCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	var item *model.FoodItem
	for i := range items {
		if items[i].ID == body.FoodID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "food item not found"})
	}
	if err := s.SetFood(*item, body.Delta); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// ApplyDiscount handles POST /v1/sessions/:id/discount.  The code is
// verified upstream first, then resolved against the current order; a
// rejection leaves any previously applied discount untouched.
func (h *SessionHandler) ApplyDiscount(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	var body struct {
		Code string `json:"code" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	discount, err := h.API.VerifyDiscount(upstreamCtx(c), body.Code)
	if err != nil {
		return respondError(c, err)
	}
	amount, err := s.ApplyDiscount(discount)
	if err != nil {
		return respondError(c, err)
	}
	snap := renderSnapshot(s.Snapshot())
	snap["discountAmount"] = amount
	return c.JSON(http.StatusOK, snap)
}

// RemoveDiscount handles DELETE /v1/sessions/:id/discount.
func (h *SessionHandler) RemoveDiscount(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	s.RemoveDiscount()
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// EnterReview handles POST /v1/sessions/:id/review and starts the
// payment-review countdown.  Calling it again (screen re-focus) replaces
// the running countdown instead of stacking a second one.
func (h *SessionHandler) EnterReview(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	id := s.ID()
	if err := s.EnterReview(h.ReviewWindow, func() {
		log.Printf("session %s: payment review window elapsed, selection released", id)
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// AppState handles POST /v1/sessions/:id/app-state.  Backgrounding the
// app suppresses the expiry notice; the countdown itself keeps running.
func (h *SessionHandler) AppState(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	var body struct {
		State string `json:"state" validate:"required,oneof=background foreground"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	s.SetBackgrounded(body.State == "background")
	return c.JSON(http.StatusOK, renderSnapshot(s.Snapshot()))
}

// renderSnapshot shapes a session snapshot for JSON responses.
func renderSnapshot(snap session.Snapshot) echo.Map {
	out := echo.Map{
		"id":      snap.ID,
		"state":   snap.State,
		"movieId": snap.MovieID,
		"cinema":  snap.Cinema,
		"seats":   renderSeats(snap.Seats),
		"food":    renderFood(snap.Food),
		"totals": echo.Map{
			"seatSubtotal":   snap.Totals.SeatSubtotal,
			"foodSubtotal":   snap.Totals.FoodSubtotal,
			"discountAmount": snap.Totals.DiscountAmount,
			"grandTotal":     snap.Totals.GrandTotal,
		},
		"remainingSeconds": snap.Remaining,
	}
	if snap.Showtime != nil {
		out["showtime"] = snap.Showtime
	}
	if snap.Discount != nil {
		out["discount"] = echo.Map{
			"code":    snap.Discount.Code,
			"name":    snap.Discount.Name,
			"percent": snap.Discount.Percent,
			"type":    snap.Discount.Type,
		}
	}
	return out
}

func renderSeats(seats []model.Seat) []echo.Map {
	out := make([]echo.Map, 0, len(seats))
	for _, s := range seats {
		out = append(out, echo.Map{"id": s.ID, "name": s.Name, "price": s.Price})
	}
	return out
}

func renderFood(food []model.SelectedFoodItem) []echo.Map {
	out := make([]echo.Map, 0, len(food))
	for _, line := range food {
		out = append(out, echo.Map{
			"id":       line.Item.ID,
			"name":     line.Item.Name,
			"price":    line.Item.Price,
			"quantity": line.Quantity,
			"subtotal": line.Subtotal(),
		})
	}
	return out
}
