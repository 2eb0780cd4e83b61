package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoangtv/cinebook-flow/internal/backend"
	"github.com/hoangtv/cinebook-flow/internal/booking"
	"github.com/hoangtv/cinebook-flow/internal/inventory"
	"github.com/hoangtv/cinebook-flow/internal/model"
	"github.com/hoangtv/cinebook-flow/internal/queue"
	"github.com/hoangtv/cinebook-flow/internal/repository"
	"github.com/hoangtv/cinebook-flow/internal/session"
)

// checkoutAPI is the slice of the upstream client the confirm path
// needs beyond what the submitter owns.
type checkoutAPI interface {
	ValidateAvailability(ctx context.Context, showtimeID string, seatIDs []string) error
}

// CheckoutHandler owns the end of the flow: availability validation,
// ticket submission, history/contact persistence, the confirmed-booking
// event, and the card-payment follow-up.
type CheckoutHandler struct {
	Store     *session.Store
	API       checkoutAPI
	Loader    *inventory.Loader
	Submitter *booking.Submitter
	History   *repository.HistoryRepo
	Contacts  *repository.ContactRepo
	Publish   func(ctx context.Context, ev queue.BookingConfirmedEvent) error

	// drafts holds confirmed-but-unsubmitted bookings so a failed
	// submission can be retried without re-entering anything.
	mu     sync.Mutex
	drafts map[string]model.BookingDraft
}

// NewCheckoutHandler constructs a CheckoutHandler.  Publish may be nil
// when no broker is configured; events are then skipped.
func NewCheckoutHandler(store *session.Store, api checkoutAPI, loader *inventory.Loader, submitter *booking.Submitter, history *repository.HistoryRepo, contacts *repository.ContactRepo, publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error) *CheckoutHandler {
	if store == nil || api == nil || loader == nil || submitter == nil {
		panic("nil dependency passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{
		Store:     store,
		API:       api,
		Loader:    loader,
		Submitter: submitter,
		History:   history,
		Contacts:  contacts,
		Publish:   publish,
		drafts:    make(map[string]model.BookingDraft),
	}
}

// confirmBody is the checkout request: contact info plus payment method.
type confirmBody struct {
	Contact struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"required"`
	} `json:"contact"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cash card"`
}

// Confirm handles POST /v1/sessions/:id/confirm.  The sequence is
// fixed: re-validate seat availability server-side, freeze the session
// into a draft, submit the ticket, persist history and contact, publish
// the event.  A seat conflict clears the selection, refreshes the
// status feed and returns 409 so the user picks again.  A submission
// failure keeps the draft; calling confirm again retries it.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	s, err := sessionFromPath(c, h.Store)
	if err != nil {
		return err
	}
	var body confirmBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	contact := model.ContactInfo{
		Name:   body.Contact.Name,
		Email:  body.Contact.Email,
		Phone:  body.Contact.Phone,
		Source: model.ContactSourceManual,
	}

	ctx := upstreamCtx(c)
	draft, pending := h.pendingDraft(s.ID())
	if pending {
		// The ticket carries whatever the user just typed, not the
		// contact frozen on the failed attempt.
		draft.Contact = contact
	} else {
		snap := s.Snapshot()
		if snap.Showtime == nil {
			return respondError(c, session.ErrNoShowtime)
		}
		seatIDs := make([]string, 0, len(snap.Seats))
		for _, seat := range snap.Seats {
			seatIDs = append(seatIDs, seat.ID)
		}

		// Mandatory server-side re-check before anything freezes.  Only
		// a reported conflict clears the selection; a transport failure
		// leaves the session untouched so the user can simply retry.
		if err := h.API.ValidateAvailability(ctx, snap.Showtime.ID, seatIDs); err != nil {
			if errors.Is(err, backend.ErrSeatConflict) {
				if view := s.View(); view != nil {
					s.RefreshView(h.Loader.Refresh(ctx, view, snap.Showtime.ID))
				}
			}
			return respondError(c, err)
		}

		draft, err = s.Confirm(contact, body.PaymentMethod)
		if err != nil {
			return respondError(c, err)
		}
	}

	result, err := h.Submitter.Submit(ctx, draft)
	if err != nil {
		// Keep the draft so the user can retry without losing anything.
		h.storeDraft(s.ID(), h.withOrderID(draft))
		return respondError(c, err)
	}
	h.dropDraft(s.ID())

	h.recordHistory(ctx, s.UserID(), draft, result)
	h.saveContact(ctx, s.UserID(), contact)
	h.publishConfirmed(s.UserID(), draft, result)

	resp := echo.Map{
		"ticketId": result.TicketID,
		"orderId":  result.OrderID,
		"status":   booking.InitialStatus(draft.PaymentMethod),
		"total":    draft.Total,
	}
	if draft.PaymentMethod == model.PaymentCard {
		intent, err := h.Submitter.StartCardPayment(ctx, result.OrderID, draft.Total)
		if err != nil {
			// Ticket exists; the client can retry the payment handoff.
			log.Printf("checkout: payment intent failed for order %s: %v", result.OrderID, err)
		} else {
			resp["payment"] = echo.Map{"intentId": intent.IntentID, "clientSecret": intent.ClientSecret}
		}
	}
	return c.JSON(http.StatusCreated, resp)
}

// withOrderID pins the order id on a retained draft so a retry submits
// the same order instead of minting a new one.
func (h *CheckoutHandler) withOrderID(draft model.BookingDraft) model.BookingDraft {
	if draft.OrderID == "" {
		draft.OrderID = h.Submitter.BuildPayload(draft).OrderID
	}
	return draft
}

func (h *CheckoutHandler) pendingDraft(sessionID string) (model.BookingDraft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.drafts[sessionID]
	return d, ok
}

func (h *CheckoutHandler) storeDraft(sessionID string, d model.BookingDraft) {
	h.mu.Lock()
	h.drafts[sessionID] = d
	h.mu.Unlock()
}

func (h *CheckoutHandler) dropDraft(sessionID string) {
	h.mu.Lock()
	delete(h.drafts, sessionID)
	h.mu.Unlock()
}

func (h *CheckoutHandler) recordHistory(ctx context.Context, userID string, draft model.BookingDraft, result backend.TicketResult) {
	if h.History == nil {
		return
	}
	names := make([]string, 0, len(draft.Seats))
	for _, seat := range draft.Seats {
		names = append(names, seat.Name)
	}
	entry := repository.HistoryEntry{
		UserID:    userID,
		TicketID:  result.TicketID,
		OrderID:   result.OrderID,
		MovieID:   draft.MovieID,
		Cinema:    draft.Showtime.Cinema.Name,
		Room:      draft.Showtime.Room.Name,
		Showtime:  draft.Showtime.Date + " " + draft.Showtime.Time,
		SeatNames: names,
		Total:     draft.Total,
		Status:    booking.InitialStatus(draft.PaymentMethod),
	}
	if _, err := h.History.Insert(ctx, entry); err != nil {
		log.Printf("checkout: history insert failed for order %s: %v", result.OrderID, err)
	}
}

func (h *CheckoutHandler) saveContact(ctx context.Context, userID string, contact model.ContactInfo) {
	if h.Contacts == nil {
		return
	}
	if err := h.Contacts.Upsert(ctx, userID, contact); err != nil {
		log.Printf("checkout: contact upsert failed for user %s: %v", userID, err)
	}
}

func (h *CheckoutHandler) publishConfirmed(userID string, draft model.BookingDraft, result backend.TicketResult) {
	if h.Publish == nil {
		return
	}
	names := make([]string, 0, len(draft.Seats))
	for _, seat := range draft.Seats {
		names = append(names, seat.Name)
	}
	ev := queue.BookingConfirmedEvent{
		OrderID:       result.OrderID,
		TicketID:      result.TicketID,
		UserID:        userID,
		MovieID:       draft.MovieID,
		CinemaName:    draft.Showtime.Cinema.Name,
		RoomName:      draft.Showtime.Room.Name,
		Showtime:      draft.Showtime.Date + " " + draft.Showtime.Time,
		SeatNames:     names,
		TotalVND:      draft.Total,
		PaymentMethod: draft.PaymentMethod,
		Status:        booking.InitialStatus(draft.PaymentMethod),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	// Fire and forget: a broker outage must not fail the booking.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("checkout: publish booking.confirmed failed for order %s: %v", ev.OrderID, err)
		}
	}()
}

// CompletePayment handles POST /v1/payment/confirm for the online card
// path: the gateway payment is confirmed, then the ticket transitions
// to paid, and the local history row follows.
func (h *CheckoutHandler) CompletePayment(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TicketID string `json:"ticketId" validate:"required"`
		IntentID string `json:"intentId" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	ctx := upstreamCtx(c)
	if err := h.Submitter.CompleteCardPayment(ctx, body.TicketID, body.IntentID); err != nil {
		return respondError(c, err)
	}
	if h.History != nil {
		if err := h.History.UpdateStatus(ctx, body.TicketID, booking.StatusPaid); err != nil {
			log.Printf("checkout: history status update failed for ticket %s: %v", body.TicketID, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ticketId": body.TicketID, "status": booking.StatusPaid})
}

// ListHistory handles GET /v1/history.
func (h *CheckoutHandler) ListHistory(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.History == nil {
		return c.JSON(http.StatusOK, echo.Map{"tickets": []any{}})
	}
	entries, err := h.History.ListByUser(c.Request().Context(), userID, 50)
	if err != nil {
		return respondError(c, err)
	}
	tickets := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		tickets = append(tickets, echo.Map{
			"ticketId": e.TicketID,
			"orderId":  e.OrderID,
			"movieId":  e.MovieID,
			"cinema":   e.Cinema,
			"room":     e.Room,
			"showtime": e.Showtime,
			"seats":    e.SeatNames,
			"total":    e.Total,
			"status":   e.Status,
			"bookedAt": e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// GetContact handles GET /v1/profile/contact, returning the cached
// contact info for checkout prefill.
func (h *CheckoutHandler) GetContact(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Contacts == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	contact, err := h.Contacts.Get(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":   contact.Name,
		"email":  contact.Email,
		"phone":  contact.Phone,
		"source": contact.Source,
	})
}

// UpdateContact handles PUT /v1/profile/contact.  Values saved here are
// tagged manual, so later api-sourced refreshes never overwrite them.
func (h *CheckoutHandler) UpdateContact(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	if h.Contacts == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "contact storage unavailable"})
	}
	contact := model.ContactInfo{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Source: model.ContactSourceManual,
	}
	if err := h.Contacts.Upsert(c.Request().Context(), userID, contact); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":   contact.Name,
		"email":  contact.Email,
		"phone":  contact.Phone,
		"source": contact.Source,
	})
}
