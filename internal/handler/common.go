package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoangtv/cinebook-flow/internal/backend"
	"github.com/hoangtv/cinebook-flow/internal/pricing"
	"github.com/hoangtv/cinebook-flow/internal/repository"
	"github.com/hoangtv/cinebook-flow/internal/session"
)

// getUserID extracts the user_id string that JWTAuth stored in context.
func getUserID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("invalid user_id in context")
}

// upstreamCtx returns the request context with the caller's bearer token
// attached, so the backend client forwards it on the user's behalf.
func upstreamCtx(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if tok, ok := c.Get("token").(string); ok && tok != "" {
		ctx = backend.WithToken(ctx, tok)
	}
	return ctx
}

// respondError maps domain sentinels to HTTP statuses and user-facing
// messages.  Raw upstream or driver errors never reach the response
// body; anything unrecognized collapses to a generic 500.
func respondError(c echo.Context, err error) error {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, session.ErrNoShowtime):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "select a showtime first"})
	case errors.Is(err, session.ErrUnknownSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat not found in this room"})
	case errors.Is(err, session.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is no longer available"})
	case errors.Is(err, session.ErrTooManySeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you can select at most 8 seats"})
	case errors.Is(err, session.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "select at least one seat"})
	case errors.Is(err, session.ErrFoodUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "this item is currently unavailable"})
	case errors.Is(err, session.ErrSessionExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "your reservation time has run out, please start over"})
	case errors.Is(err, session.ErrSessionConfirmed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "this booking has already been confirmed"})
	case errors.Is(err, session.ErrNotInReview):
		return c.JSON(http.StatusConflict, echo.Map{"error": "proceed to payment review first"})
	case errors.Is(err, pricing.ErrDiscountCinemaMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "this discount is not valid at the selected cinema"})
	case errors.Is(err, pricing.ErrDiscountNotApplicable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "this discount does not apply to your order"})
	case errors.Is(err, backend.ErrDiscountNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "discount code not found"})
	case errors.Is(err, backend.ErrSeatConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "some seats were just taken, please pick again"})
	case errors.As(err, &apiErr):
		return c.JSON(apiErr.Status, echo.Map{"error": apiErr.Message})
	case errors.Is(err, backend.ErrUnavailable):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking service is unavailable, please try again"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	c.Logger().Errorf("unhandled error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// sessionFromPath resolves the :id path param against the store.
func sessionFromPath(c echo.Context, store *session.Store) (*session.Session, error) {
	s, ok := store.Get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	uid, err := getUserID(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if s.UserID() != uid {
		return nil, echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return s, nil
}
