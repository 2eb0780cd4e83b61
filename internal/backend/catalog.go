package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

// showtimeDTO mirrors GET /showtimes/movie/:movieId entries.  Room and
// cinema arrive as object-or-id depending on backend version.
type showtimeDTO struct {
	MongoID        string `json:"_id"`
	ID             string `json:"id"`
	MovieID        string `json:"movieId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Room           Ref    `json:"room"`
	Cinema         Ref    `json:"cinema"`
	AvailableSeats *int   `json:"availableSeats"`
}

func (d showtimeDTO) toModel() model.Showtime {
	id := d.MongoID
	if id == "" {
		id = d.ID
	}
	return model.Showtime{
		ID:             id,
		MovieID:        d.MovieID,
		Date:           d.Date,
		Time:           d.Time,
		Room:           model.Room{ID: d.Room.ID, Name: d.Room.Name, CinemaID: d.Cinema.ID},
		Cinema:         model.Cinema{ID: d.Cinema.ID, Name: d.Cinema.Name},
		AvailableSeats: d.AvailableSeats,
	}
}

// ShowtimesByMovie fetches all showtimes for a movie.  The UI re-derives
// the per-date candidate list from this slice whenever the user changes
// date or cinema.
func (c *Client) ShowtimesByMovie(ctx context.Context, movieID string) ([]model.Showtime, error) {
	var dtos []showtimeDTO
	if err := c.get(ctx, "/showtimes/movie/"+movieID, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.Showtime, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out, nil
}

type seatDTO struct {
	MongoID string  `json:"_id"`
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Room    Ref     `json:"room"`
}

// SeatsByRoom fetches the seat catalog of a room.  The catalog does not
// change during a session; callers reload it only when the selected
// showtime moves to a different room.
func (c *Client) SeatsByRoom(ctx context.Context, roomID string) ([]model.Seat, error) {
	var resp struct {
		Seats []seatDTO `json:"seats"`
	}
	if err := c.get(ctx, fmt.Sprintf("/seats/room/%s?groupByRow=true", roomID), &resp); err != nil {
		return nil, err
	}
	out := make([]model.Seat, 0, len(resp.Seats))
	for _, d := range resp.Seats {
		id := d.MongoID
		if id == "" {
			id = d.ID
		}
		out = append(out, model.Seat{ID: id, RoomID: d.Room.ID, Name: d.Name, Price: int64(d.Price)})
	}
	return out, nil
}

// seatStatusDTO tolerates both `seatId` and an embedded `seat` reference.
type seatStatusDTO struct {
	SeatID string `json:"seatId"`
	Seat   Ref    `json:"seat"`
	Status string `json:"status"`
}

// SeatStatusByShowtime fetches the per-showtime status feed and returns
// a seat-id → status map.  Seats absent from the response are simply
// missing from the map; the inventory layer defaults them to available.
func (c *Client) SeatStatusByShowtime(ctx context.Context, showtimeID string) (map[string]string, error) {
	var dtos []seatStatusDTO
	if err := c.get(ctx, "/seat-status/showtime/"+showtimeID, &dtos); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(dtos))
	for _, d := range dtos {
		id := d.SeatID
		if id == "" {
			id = d.Seat.ID
		}
		if id != "" {
			out[id] = d.Status
		}
	}
	return out, nil
}

// ValidateAvailability re-checks the given seats server-side for a
// showtime.  A reported conflict comes back as ErrSeatConflict; any
// transport failure is ErrUnavailable so the caller can decide whether
// the call is best-effort or mandatory for its step.
func (c *Client) ValidateAvailability(ctx context.Context, showtimeID string, seatIDs []string) error {
	body := map[string]any{"seatIds": seatIDs, "showtimeId": showtimeID}
	var env envelope
	if err := c.post(ctx, "/seats/validate-availability", body, &env); err != nil {
		return err
	}
	if !env.Success {
		return ErrSeatConflict
	}
	return nil
}

type foodDTO struct {
	MongoID   string  `json:"_id"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Available *bool   `json:"available"`
}

// FoodItems fetches the concession catalog.  Items missing the
// availability flag are treated as orderable.
func (c *Client) FoodItems(ctx context.Context) ([]model.FoodItem, error) {
	var dtos []foodDTO
	if err := c.get(ctx, "/food", &dtos); err != nil {
		return nil, err
	}
	out := make([]model.FoodItem, 0, len(dtos))
	for _, d := range dtos {
		id := d.MongoID
		if id == "" {
			id = d.ID
		}
		available := true
		if d.Available != nil {
			available = *d.Available
		}
		out = append(out, model.FoodItem{ID: id, Name: d.Name, Price: int64(d.Price), Category: d.Category, Available: available})
	}
	return out, nil
}

// discountDTO mirrors GET /discounts/verify/:code data.  The cinema
// restriction arrives either as a single reference or as a list.
type discountDTO struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Percent int    `json:"percent"`
	Type    string `json:"type"`
	Cinema  *Ref   `json:"cinema"`
	Cinemas []Ref  `json:"cinemas"`
}

// VerifyDiscount resolves a user-entered code against the promotion
// catalog.  Unknown codes return ErrDiscountNotFound.
func (c *Client) VerifyDiscount(ctx context.Context, code string) (model.Discount, error) {
	var env envelope
	if err := c.get(ctx, "/discounts/verify/"+code, &env); err != nil {
		return model.Discount{}, err
	}
	if !env.Success || len(env.Data) == 0 {
		return model.Discount{}, ErrDiscountNotFound
	}
	var dto discountDTO
	if err := json.Unmarshal(env.Data, &dto); err != nil {
		return model.Discount{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	d := model.Discount{Code: dto.Code, Name: dto.Name, Percent: dto.Percent, Type: dto.Type}
	if d.Code == "" {
		d.Code = code
	}
	if dto.Cinema != nil && dto.Cinema.ID != "" {
		d.CinemaIDs = append(d.CinemaIDs, dto.Cinema.ID)
	}
	for _, ref := range dto.Cinemas {
		if ref.ID != "" {
			d.CinemaIDs = append(d.CinemaIDs, ref.ID)
		}
	}
	return d, nil
}
