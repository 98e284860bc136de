// Package feedtest provides deterministic Rand and Clock fakes for feed tests.
package feedtest

import (
	"sync"
	"time"
)

// SequenceRand returns Values in order, cycling when exhausted.
type SequenceRand struct {
	mu     sync.Mutex
	Values []float64
	i      int
}

func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{Values: values}
}

func (r *SequenceRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[r.i%len(r.Values)]
	r.i++
	return v
}

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
