package testutil

import (
	"sync"

	"github.com/roach88/wid/internal/tick"
)

// ManualClock is a tick.Source that only moves when told to.
//
// The same tick value is returned for every unit; tests pick the unit they
// care about. Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu   sync.Mutex
	tick int64
}

// NewManualClock creates a clock pinned at start.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{tick: start}
}

// Now returns the pinned tick. Implements tick.Source.
func (c *ManualClock) Now(tick.Unit) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Set moves the clock to t, forwards or backwards.
func (c *ManualClock) Set(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = t
}

// Advance moves the clock by d ticks and returns the new value.
func (c *ManualClock) Advance(d int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick += d
	return c.tick
}
