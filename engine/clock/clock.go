// Package clock tracks the normalized animation time and the play/pause state.
package clock

import (
	"math"
	"time"
)

// DefaultDuration is the cycle length used until a document or the user sets one.
const DefaultDuration = 5 * time.Second

// Clock advances normalized time in [0, 1) while playing. It is owned by a single goroutine.
type Clock struct {
	time     float32
	duration time.Duration
	playing  bool
}

// New returns a paused clock at time 0 with the default duration.
func New() *Clock {
	return &Clock{duration: DefaultDuration}
}

// Advance moves time forward by dt of wall time, wrapping at 1. Does nothing while paused.
func (c *Clock) Advance(dt time.Duration) {
	if !c.playing || dt <= 0 {
		return
	}
	next := float64(c.time) + dt.Seconds()/c.duration.Seconds()
	c.time = wrap(next)
}

// Seek sets the time, clamped to [0, 1).
func (c *Clock) Seek(t float32) {
	switch {
	case t < 0 || math.IsNaN(float64(t)):
		t = 0
	case t >= 1:
		t = math.Nextafter32(1, 0)
	}
	c.time = t
}

// Play starts advancing.
func (c *Clock) Play() { c.playing = true }

// Pause stops advancing.
func (c *Clock) Pause() { c.playing = false }

// Toggle flips between playing and paused.
func (c *Clock) Toggle() { c.playing = !c.playing }

// Reset pauses and rewinds to 0.
func (c *Clock) Reset() {
	c.playing = false
	c.time = 0
}

// SetDuration changes the cycle length. Non-positive durations are rejected.
func (c *Clock) SetDuration(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	c.duration = d
	return true
}

// Time returns the normalized time.
func (c *Clock) Time() float32 { return c.time }

// Duration returns the cycle length.
func (c *Clock) Duration() time.Duration { return c.duration }

// Playing reports whether the clock is advancing. Edits are refused while it is.
func (c *Clock) Playing() bool { return c.playing }

func wrap(t float64) float32 {
	t = math.Mod(t, 1)
	if t < 0 {
		t += 1
	}
	out := float32(t)
	if out >= 1 {
		out = 0
	}
	return out
}
