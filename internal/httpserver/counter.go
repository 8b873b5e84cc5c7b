package httpserver

import "sync/atomic"

// OrderCounter tracks the live order total shown on the admin dashboard.
// It is seeded from the database at startup and bumped by order events.
type OrderCounter struct {
	n atomic.Int64
}

func NewOrderCounter(seed int) *OrderCounter {
	c := &OrderCounter{}
	c.n.Store(int64(seed))
	return c
}

func (c *OrderCounter) Inc() {
	c.n.Add(1)
}

func (c *OrderCounter) Count() int {
	return int(c.n.Load())
}
