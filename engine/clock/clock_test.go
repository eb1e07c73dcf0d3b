package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceOnlyWhilePlaying(t *testing.T) {
	c := New()
	c.Advance(time.Second)
	assert.Equal(t, float32(0), c.Time())

	c.Play()
	c.Advance(time.Second)
	assert.InDelta(t, 0.2, c.Time(), 1e-6)
}

func TestAdvanceWraps(t *testing.T) {
	c := New()
	c.Play()
	c.Seek(0.9)
	c.Advance(time.Second)
	assert.InDelta(t, 0.1, c.Time(), 1e-5)

	c.Advance(12 * time.Second)
	assert.InDelta(t, 0.5, c.Time(), 1e-5)
}

func TestSeekClamps(t *testing.T) {
	c := New()
	c.Seek(-3)
	assert.Equal(t, float32(0), c.Time())
	c.Seek(2)
	assert.Less(t, c.Time(), float32(1))
	assert.Greater(t, c.Time(), float32(0.999))
	c.Seek(0.25)
	assert.Equal(t, float32(0.25), c.Time())
}

func TestResetAndDuration(t *testing.T) {
	c := New()
	c.Play()
	c.Seek(0.6)
	c.Reset()
	assert.False(t, c.Playing())
	assert.Equal(t, float32(0), c.Time())

	assert.False(t, c.SetDuration(0))
	assert.False(t, c.SetDuration(-time.Second))
	assert.Equal(t, DefaultDuration, c.Duration())

	assert.True(t, c.SetDuration(2*time.Second))
	c.Play()
	c.Advance(time.Second)
	assert.InDelta(t, 0.5, c.Time(), 1e-6)

	c.Toggle()
	assert.False(t, c.Playing())
}
