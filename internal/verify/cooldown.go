package verify

import "time"

// DefaultResendCooldown is the fixed window during which a second OTP
// dispatch is rejected locally.
const DefaultResendCooldown = 120 * time.Second

// cooldown tracks the resend window using monotonic elapsed time rather
// than a per-tick decrement, so being suspended and resumed (app
// backgrounding) cannot undercount the elapsed time.
type cooldown struct {
	window    time.Duration
	startedAt time.Time
	now       func() time.Time
}

func newCooldown(window time.Duration, now func() time.Time) *cooldown {
	if now == nil {
		now = time.Now
	}
	return &cooldown{window: window, now: now}
}

// Start begins (or restarts) the cooldown window.
func (c *cooldown) Start() {
	c.startedAt = c.now()
}

// Remaining returns how much of the window is left, clamped at zero.
func (c *cooldown) Remaining() time.Duration {
	if c.startedAt.IsZero() {
		return 0
	}
	elapsed := c.now().Sub(c.startedAt)
	if elapsed >= c.window {
		return 0
	}
	return c.window - elapsed
}

// Active reports whether the window is still running.
func (c *cooldown) Active() bool {
	return c.Remaining() > 0
}
