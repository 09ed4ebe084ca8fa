package sim

import "time"

// FrameClock reports the seconds between successive calls from a monotonic
// clock. The first call reports zero.
type FrameClock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

func NewFrameClock() *FrameClock {
	return &FrameClock{now: time.Now}
}

func (c *FrameClock) Elapsed() float64 {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return 0
	}
	d := t.Sub(c.last).Seconds()
	c.last = t
	if d < 0 {
		return 0
	}
	return d
}

// Reset makes the next Elapsed report zero, e.g. after the window regains
// focus.
func (c *FrameClock) Reset() {
	c.started = false
}
