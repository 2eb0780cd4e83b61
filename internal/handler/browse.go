package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/hoangtv/cinebook-flow/internal/inventory"
	"github.com/hoangtv/cinebook-flow/internal/model"
)

// catalogAPI is the slice of the upstream client the browse endpoints
// need.
type catalogAPI interface {
	ShowtimesByMovie(ctx context.Context, movieID string) ([]model.Showtime, error)
	FoodItems(ctx context.Context) ([]model.FoodItem, error)
}

// BrowseHandler proxies the read-only catalogs the selection screens
// render: showtimes grouped by date, the seat map of a room, and the
// concession menu.  These routes sit behind the Redis response cache;
// nothing here mutates state.
type BrowseHandler struct {
	API    catalogAPI
	Loader *inventory.Loader
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(api catalogAPI, loader *inventory.Loader) *BrowseHandler {
	if api == nil || loader == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{API: api, Loader: loader}
}

// ListShowtimes handles GET /v1/movies/:id/showtimes.  The response
// groups showtimes by date so the date picker renders directly; dates
// sort ascending, times within a date ascending.
func (h *BrowseHandler) ListShowtimes(c echo.Context) error {
	movieID := c.Param("id")
	if movieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	showtimes, err := h.API.ShowtimesByMovie(upstreamCtx(c), movieID)
	if err != nil {
		return respondError(c, err)
	}

	byDate := make(map[string][]model.Showtime)
	for _, st := range showtimes {
		byDate[st.Date] = append(byDate[st.Date], st)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	type dateGroup struct {
		Date      string           `json:"date"`
		Showtimes []model.Showtime `json:"showtimes"`
	}
	groups := make([]dateGroup, 0, len(dates))
	for _, d := range dates {
		sts := byDate[d]
		sort.Slice(sts, func(i, j int) bool { return sts[i].Time < sts[j].Time })
		groups = append(groups, dateGroup{Date: d, Showtimes: sts})
	}
	return c.JSON(http.StatusOK, echo.Map{"movieId": movieID, "dates": groups})
}

// ListRoomSeats handles GET /v1/rooms/:id/seats.  The optional
// showtimeId query parameter merges in the status feed for that
// screening; without it every seat reports available.
func (h *BrowseHandler) ListRoomSeats(c echo.Context) error {
	roomID := c.Param("id")
	if roomID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	view, err := h.Loader.Load(upstreamCtx(c), roomID, c.QueryParam("showtimeId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, renderView(view))
}

// ListFood handles GET /v1/food.
func (h *BrowseHandler) ListFood(c echo.Context) error {
	items, err := h.API.FoodItems(upstreamCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// seatJSON is one seat as the seat-map screens consume it.
type seatJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Status string `json:"status"`
}

// rowJSON is one row of the rendered seat map.
type rowJSON struct {
	Label string     `json:"label"`
	Seats []seatJSON `json:"seats"`
}

// renderView flattens an inventory view into the response shape,
// resolving each seat's effective status.
func renderView(view *inventory.View) echo.Map {
	rows := make([]rowJSON, 0, len(view.Rows))
	for _, row := range view.Rows {
		seats := make([]seatJSON, 0, len(row.Seats))
		for _, s := range row.Seats {
			seats = append(seats, seatJSON{
				ID:     s.ID,
				Name:   s.Name,
				Price:  s.Price,
				Status: view.StatusOf(s.ID),
			})
		}
		rows = append(rows, rowJSON{Label: row.Label, Seats: seats})
	}
	return echo.Map{
		"roomId":     view.RoomID,
		"showtimeId": view.ShowtimeID,
		"rows":       rows,
	}
}
