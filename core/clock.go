package core

import "time"

// Clock reports seconds elapsed since it was started.
type Clock struct {
	start time.Time
	now   func() time.Time
}

func NewClock() *Clock {
	return &Clock{start: time.Now(), now: time.Now}
}

// Elapsed returns the seconds since NewClock. time.Time carries a monotonic
// reading, so wall-clock jumps do not affect it.
func (c *Clock) Elapsed() float32 {
	return float32(c.now().Sub(c.start).Seconds())
}
