package attempt

import (
	"sync"
	"time"
)

// Countdown counts a number of seconds down to zero and fires onExpire
// exactly once when it gets there. Ticks after expiry are no-ops and the
// remaining value never goes negative.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	interval  time.Duration
	onExpire  func()
	stop      chan struct{}
	stopOnce  sync.Once
	expired   bool
	started   bool
}

// NewCountdown builds a countdown ticking once per real-time second.
func NewCountdown(seconds int, onExpire func()) *Countdown {
	return newCountdown(seconds, time.Second, onExpire)
}

func newCountdown(seconds int, interval time.Duration, onExpire func()) *Countdown {
	return &Countdown{
		remaining: seconds,
		interval:  interval,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
	}
}

// Start launches the ticking goroutine. Starting twice is a no-op.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	if c.remaining <= 0 {
		// Already out of time, e.g. an attempt resumed past its deadline.
		c.expired = true
		c.mu.Unlock()
		c.Stop()
		if c.onExpire != nil {
			c.onExpire()
		}
		return
	}
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if c.tick() {
					c.Stop()
					return
				}
			case <-c.stop:
				return
			}
		}
	}()
}

// tick decrements once and reports whether the countdown just expired.
func (c *Countdown) tick() bool {
	c.mu.Lock()
	if c.expired {
		c.mu.Unlock()
		return true
	}
	c.remaining--
	if c.remaining > 0 {
		c.mu.Unlock()
		return false
	}
	c.remaining = 0
	c.expired = true
	c.mu.Unlock()
	if c.onExpire != nil {
		c.onExpire()
	}
	return true
}

// Stop cancels the ticking goroutine. Safe to call more than once.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Remaining returns the seconds left, clamped at zero.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown has fired.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}
