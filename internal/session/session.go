package session

import (
	"sort"
	"sync"
	"time"

	"github.com/hoangtv/cinebook-flow/internal/inventory"
	"github.com/hoangtv/cinebook-flow/internal/model"
	"github.com/hoangtv/cinebook-flow/internal/pricing"
)

// State is the position of a session in the reservation flow.
type State string

const (
	StateBrowsing         State = "BROWSING"          // created, no showtime chosen
	StateShowtimeSelected State = "SHOWTIME_SELECTED" // seats loadable
	StateSeatsPicked      State = "SEATS_PICKED"      // at least one seat selected
	StateFoodPicked       State = "FOOD_PICKED"       // optional concession step
	StatePaymentReview    State = "PAYMENT_REVIEW"    // countdown running
	StateConfirmed        State = "CONFIRMED"         // frozen, handed to submission
	StateExpired          State = "EXPIRED"           // countdown hit zero, discarded
)

// MaxSelectedSeats bounds the party size per booking.
const MaxSelectedSeats = 8

// ReviewWindow is the time the user gets to complete checkout once the
// payment-review step starts.
const ReviewWindow = 300 * time.Second

// Session is the aggregate reservation draft.  All exported methods are
// safe for concurrent use; the expiry path and the confirm path take the
// same lock, so a just-confirmed session can never be expired by a
// late-firing timer.
type Session struct {
	mu sync.Mutex

	id      string
	userID  string
	movieID string
	cinema  model.Cinema

	state    State
	showtime *model.Showtime
	view     *inventory.View
	selected map[string]model.Seat
	food     map[string]model.SelectedFoodItem

	discount       *model.Discount
	discountAmount int64

	countdown     *Countdown
	notify        func()
	noticeShown   bool
	suspended     bool
	pendingNotice bool

	createdAt time.Time
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user.
func (s *Session) UserID() string { return s.userID }

// MovieID returns the movie the session was opened for.
func (s *Session) MovieID() string { return s.movieID }

// Cinema returns the venue the session was opened at.
func (s *Session) Cinema() model.Cinema { return s.cinema }

// State returns the current flow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// terminal reports whether no further mutation is permitted.  Callers
// must hold s.mu.
func (s *Session) terminalErr() error {
	switch s.state {
	case StateExpired:
		return ErrSessionExpired
	case StateConfirmed:
		return ErrSessionConfirmed
	}
	return nil
}

// SelectShowtime binds the session to a screening and installs the seat
// view loaded for it.  Changing showtime invalidates the current seat
// selection and any active discount, since both were priced against the
// previous screening.
func (s *Session) SelectShowtime(st model.Showtime, view *inventory.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErr(); err != nil {
		return err
	}
	s.showtime = &st
	s.view = view
	s.selected = make(map[string]model.Seat)
	s.discount = nil
	s.discountAmount = 0
	s.state = StateShowtimeSelected
	return nil
}

// Showtime returns the selected screening, nil while browsing.
func (s *Session) Showtime() *model.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.showtime == nil {
		return nil
	}
	st := *s.showtime
	return &st
}

// View returns the seat projection currently installed on the session.
func (s *Session) View() *inventory.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// RefreshView swaps in a re-fetched seat projection and drops the whole
// seat selection.  Used after an availability conflict: the user is
// shown the fresh map and picks again.
func (s *Session) RefreshView(view *inventory.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.selected = make(map[string]model.Seat)
	if s.state == StateSeatsPicked || s.state == StateFoodPicked || s.state == StatePaymentReview {
		s.stopCountdownLocked()
		s.state = StateShowtimeSelected
	}
}

// ToggleSeat flips one seat's membership in the selection.  Adding is
// rejected when no showtime is selected, when the seat's last-known
// status is not available, or when the cap is already reached.  Removing
// an already-selected seat always succeeds.
func (s *Session) ToggleSeat(seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErr(); err != nil {
		return err
	}
	if s.showtime == nil || s.view == nil {
		return ErrNoShowtime
	}
	if _, picked := s.selected[seatID]; picked {
		delete(s.selected, seatID)
		if len(s.selected) == 0 && s.state == StateSeatsPicked {
			s.state = StateShowtimeSelected
		}
		return nil
	}
	seat, ok := s.view.Seat(seatID)
	if !ok {
		return ErrUnknownSeat
	}
	if !s.view.Selectable(seatID) {
		return ErrSeatUnavailable
	}
	if len(s.selected) >= MaxSelectedSeats {
		return ErrTooManySeats
	}
	s.selected[seatID] = seat
	if s.state == StateShowtimeSelected {
		s.state = StateSeatsPicked
	}
	return nil
}

// Seats returns the current selection ordered by row then seat number.
func (s *Session) Seats() []model.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatsLocked()
}

func (s *Session) seatsLocked() []model.Seat {
	out := make([]model.Seat, 0, len(s.selected))
	for _, seat := range s.selected {
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row() != out[j].Row() {
			return out[i].Row() < out[j].Row()
		}
		return out[i].Number() < out[j].Number()
	})
	return out
}

// SetFood moves a food line's quantity by delta (one step per tap in the
// UI, but any delta works).  The line disappears entirely when the
// quantity reaches zero.  Increments on unavailable items are rejected;
// decrements always work so a stale cart can be emptied.
func (s *Session) SetFood(item model.FoodItem, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErr(); err != nil {
		return err
	}
	line, ok := s.food[item.ID]
	if delta > 0 && !item.Available {
		return ErrFoodUnavailable
	}
	if !ok {
		if delta <= 0 {
			return nil
		}
		line = model.SelectedFoodItem{Item: item}
	}
	line.Quantity += delta
	if s.food == nil {
		s.food = make(map[string]model.SelectedFoodItem)
	}
	if line.Quantity <= 0 {
		delete(s.food, item.ID)
	} else {
		s.food[item.ID] = line
	}
	if len(s.food) > 0 && s.state == StateSeatsPicked {
		s.state = StateFoodPicked
	} else if len(s.food) == 0 && s.state == StateFoodPicked {
		s.state = StateSeatsPicked
	}
	return nil
}

// Food returns the current concession lines in a stable name order.
func (s *Session) Food() []model.SelectedFoodItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foodLocked()
}

func (s *Session) foodLocked() []model.SelectedFoodItem {
	out := make([]model.SelectedFoodItem, 0, len(s.food))
	for _, line := range s.food {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Name < out[j].Item.Name })
	return out
}

// ApplyDiscount resolves the descriptor against the current order and,
// on success, stores it as the single active discount.  A rejection
// leaves the previously stored discount untouched.
func (s *Session) ApplyDiscount(d model.Discount) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErr(); err != nil {
		return 0, err
	}
	seatSub := pricing.SeatSubtotal(s.seatsLocked())
	foodSub := pricing.FoodSubtotal(s.foodLocked())
	amount, err := pricing.ResolveDiscount(d, seatSub, foodSub, s.cinema.ID)
	if err != nil {
		return 0, err
	}
	s.discount = &d
	s.discountAmount = amount
	return amount, nil
}

// RemoveDiscount clears the active discount, resetting the stored
// amount to zero.
func (s *Session) RemoveDiscount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = nil
	s.discountAmount = 0
}

// Discount returns the active descriptor, nil when none.
func (s *Session) Discount() *model.Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discount == nil {
		return nil
	}
	d := *s.discount
	return &d
}

// Totals recomputes the price breakdown from scratch.  Callable from any
// state; idempotent.
func (s *Session) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Compute(s.seatsLocked(), s.foodLocked(), s.discountAmount)
}

// EnterReview starts the payment-review countdown.  Re-entering the step
// tears down the previous timer before arming a new one, so at most one
// countdown is ever live for the session.  notify is invoked at most
// once when the window elapses, unless the session confirms first or the
// app is backgrounded at that moment.
func (s *Session) EnterReview(window time.Duration, notify func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErr(); err != nil {
		return err
	}
	if len(s.selected) == 0 {
		return ErrNoSeats
	}
	s.stopCountdownLocked()
	s.notify = notify
	s.noticeShown = false
	s.pendingNotice = false
	s.state = StatePaymentReview
	s.countdown = startCountdown(window, s.expire)
	return nil
}

func (s *Session) stopCountdownLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

// expire is the countdown callback.  The state check and the transition
// happen under the session lock, together with the confirmed flag: a
// session that confirmed before the timer fired is left alone, and a
// second fire can never re-expire or re-notify.
func (s *Session) expire() {
	s.mu.Lock()
	if s.state != StatePaymentReview {
		s.mu.Unlock()
		return
	}
	s.state = StateExpired
	s.countdown = nil
	var fire func()
	if s.suspended {
		s.pendingNotice = true
	} else if !s.noticeShown {
		s.noticeShown = true
		fire = s.notify
	}
	s.mu.Unlock()
	if fire != nil {
		fire()
	}
}

// Remaining returns the seconds left in the review window, 0 when no
// countdown is running.
func (s *Session) Remaining() int {
	s.mu.Lock()
	c := s.countdown
	s.mu.Unlock()
	if c == nil {
		return 0
	}
	return c.Remaining()
}

// SetBackgrounded suspends or re-arms expiry-notice presentation.  The
// countdown itself keeps running; only the user-facing alert is gated.
// If the session expired while backgrounded, the pending notice fires on
// the transition back to foreground.
func (s *Session) SetBackgrounded(background bool) {
	s.mu.Lock()
	s.suspended = background
	var fire func()
	if !background && s.pendingNotice && !s.noticeShown {
		s.pendingNotice = false
		s.noticeShown = true
		fire = s.notify
	}
	s.mu.Unlock()
	if fire != nil {
		fire()
	}
}

// Confirm freezes the session into an immutable booking draft and stops
// the countdown.  Only a session in payment review can confirm; once
// confirmed, no expiry side effect can fire even if timer bookkeeping
// is still in flight.
func (s *Session) Confirm(contact model.ContactInfo, paymentMethod string) (model.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErr(); err != nil {
		return model.BookingDraft{}, err
	}
	if s.state != StatePaymentReview {
		return model.BookingDraft{}, ErrNotInReview
	}
	if len(s.selected) == 0 {
		return model.BookingDraft{}, ErrNoSeats
	}
	s.state = StateConfirmed
	s.stopCountdownLocked()

	seats := s.seatsLocked()
	food := s.foodLocked()
	totals := pricing.Compute(seats, food, s.discountAmount)
	draft := model.BookingDraft{
		MovieID:        s.movieID,
		Showtime:       *s.showtime,
		Seats:          seats,
		Food:           food,
		SeatTotal:      totals.SeatSubtotal,
		FoodTotal:      totals.FoodSubtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.GrandTotal,
		Contact:        contact,
		PaymentMethod:  paymentMethod,
	}
	if s.discount != nil {
		d := *s.discount
		draft.Discount = &d
	}
	return draft, nil
}

// Snapshot is the read model handlers render for the UI.
type Snapshot struct {
	ID        string
	State     State
	MovieID   string
	Cinema    model.Cinema
	Showtime  *model.Showtime
	Seats     []model.Seat
	Food      []model.SelectedFoodItem
	Discount  *model.Discount
	Totals    pricing.Totals
	Remaining int
}

// Snapshot copies the session's visible state under one lock
// acquisition.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:      s.id,
		State:   s.state,
		MovieID: s.movieID,
		Cinema:  s.cinema,
		Seats:   s.seatsLocked(),
		Food:    s.foodLocked(),
		Totals:  pricing.Compute(s.seatsLocked(), s.foodLocked(), s.discountAmount),
	}
	if s.showtime != nil {
		st := *s.showtime
		snap.Showtime = &st
	}
	if s.discount != nil {
		d := *s.discount
		snap.Discount = &d
	}
	c := s.countdown
	s.mu.Unlock()
	if c != nil {
		snap.Remaining = c.Remaining()
	}
	return snap
}
