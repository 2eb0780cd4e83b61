package session

import (
	"sync"
	"time"
)

// Countdown is the single owned timer resource of a session's
// payment-review step.  It wraps one time.Timer with a recorded
// deadline; the session guarantees at most one live Countdown by
// stopping the previous one before starting a new one.
type Countdown struct {
	mu       sync.Mutex
	timer    *time.Timer
	deadline time.Time
	stopped  bool
}

// startCountdown arms a timer that calls fire once after window.
func startCountdown(window time.Duration, fire func()) *Countdown {
	c := &Countdown{deadline: time.Now().Add(window)}
	c.timer = time.AfterFunc(window, fire)
	return c
}

// Stop cancels the timer.  It is safe to call repeatedly and after the
// timer has already fired.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	c.timer.Stop()
}

// Remaining returns the whole seconds left until the deadline, floored
// at zero.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	rem := time.Until(c.deadline)
	if rem <= 0 {
		return 0
	}
	return int(rem / time.Second)
}
