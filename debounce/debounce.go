// Package debounce coalesces bursts of updates into a single delayed flush
// per key, so durable writes are not issued per keystroke.
package debounce

import (
	"sync"
	"time"
)

type cell struct {
	pending string
	timer   *time.Timer
}

// Coalescer holds, per key, the most recent pending value and at most one
// armed timer. A new update always cancels and replaces the timer, never
// stacks. Exactly one of {timer fire, forced flush} runs the flush callback
// per arming: the fired timer is checked against the cell's current handle
// under the lock, so a lost race is a no-op.
type Coalescer struct {
	mu    sync.Mutex
	delay time.Duration
	flush func(key, value string)
	cells map[string]*cell
}

func NewCoalescer(delay time.Duration, flush func(key, value string)) *Coalescer {
	return &Coalescer{
		delay: delay,
		flush: flush,
		cells: map[string]*cell{},
	}
}

// Update replaces the pending value and re-arms the timer for key.
func (c *Coalescer) Update(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl := c.cells[key]
	if cl == nil {
		cl = &cell{}
		c.cells[key] = cl
	}
	cl.pending = value
	if cl.timer != nil {
		cl.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(c.delay, func() {
		c.fire(key, t)
	})
	cl.timer = t
}

func (c *Coalescer) fire(key string, t *time.Timer) {
	c.mu.Lock()
	cl := c.cells[key]
	if cl == nil || cl.timer != t {
		// Re-armed or flushed since this timer was set.
		c.mu.Unlock()
		return
	}
	cl.timer = nil
	value := cl.pending
	c.mu.Unlock()

	c.flush(key, value)
}

// FlushNow cancels any armed timer for key and runs the flush synchronously
// with the current pending value. No timer armed means nothing pending, so
// this is a no-op; calling it twice never produces a second flush.
func (c *Coalescer) FlushNow(key string) {
	c.mu.Lock()
	cl := c.cells[key]
	if cl == nil || cl.timer == nil {
		c.mu.Unlock()
		return
	}
	cl.timer.Stop()
	cl.timer = nil
	value := cl.pending
	c.mu.Unlock()

	c.flush(key, value)
}

// Pending returns the last value seen for key. The value is retained after
// a flush as a cache; Active reports whether a timer is still armed.
func (c *Coalescer) Pending(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cl := c.cells[key]
	if cl == nil {
		return "", false
	}
	return cl.pending, true
}

func (c *Coalescer) Active(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cl := c.cells[key]
	return cl != nil && cl.timer != nil
}
