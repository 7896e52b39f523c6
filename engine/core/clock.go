package core

import "time"

// Clock measures wall time from Start. Not safe for concurrent use.
type Clock struct {
	startTime time.Time
	elapsed   time.Duration
}

func NewClock() *Clock {
	return &Clock{}
}

// Start resets the clock and begins measuring.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.elapsed = 0
}

func (c *Clock) Running() bool {
	return !c.startTime.IsZero()
}

// Update refreshes Elapsed on a running clock and returns it.
func (c *Clock) Update() time.Duration {
	if c.Running() {
		c.elapsed = time.Since(c.startTime)
	}
	return c.elapsed
}

// Stop freezes the clock and returns the time measured since Start.
func (c *Clock) Stop() time.Duration {
	c.Update()
	c.startTime = time.Time{}
	return c.elapsed
}

func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
