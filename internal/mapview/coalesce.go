package mapview

import (
	"sync"
	"time"
)

// Coalescer delivers at most one value per quiet period of delay: every
// Trigger restarts the timer and only the latest value is delivered.
type Coalescer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	gen     uint64
	pending bool
	latest  T
	stopped bool
}

func NewCoalescer[T any](delay time.Duration, fn func(T)) *Coalescer[T] {
	return &Coalescer[T]{delay: delay, fn: fn}
}

func (c *Coalescer[T]) Trigger(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	c.latest = v
	c.pending = true
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() { c.fire(gen) })
}

func (c *Coalescer[T]) fire(gen uint64) {
	c.mu.Lock()
	if c.stopped || !c.pending || gen != c.gen {
		c.mu.Unlock()
		return
	}
	v := c.latest
	c.pending = false
	c.mu.Unlock()

	c.fn(v)
}

// Flush delivers a pending value immediately.
func (c *Coalescer[T]) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.gen
	c.mu.Unlock()
	c.fire(gen)
}

// Stop drops any pending value; later triggers are ignored.
func (c *Coalescer[T]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
	}
}
