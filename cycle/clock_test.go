package cycle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMinuteRange(t *testing.T) {
	c := Clock{Cycle: 2 * time.Minute, Start: epoch}

	offsets := []time.Duration{
		0,
		time.Nanosecond,
		59 * time.Second,
		2*time.Minute - time.Nanosecond,
		2 * time.Minute,
		17*time.Hour + 3*time.Millisecond,
		-time.Second,
		-3*time.Minute - 7*time.Nanosecond,
	}
	for _, off := range offsets {
		m := c.Minute(epoch.Add(off), 0)
		assert.GreaterOrEqual(t, m, 0.0, "offset %v", off)
		assert.Less(t, m, float64(MinutesPerDay), "offset %v", off)
	}
}

func TestMinuteLinearWithinCycle(t *testing.T) {
	c := Clock{Cycle: 24 * time.Minute, Start: epoch}

	// One real minute equals one simulated hour
	assert.InDelta(t, 60.0, c.Minute(epoch.Add(time.Minute), 0), 1e-9)
	assert.InDelta(t, 720.0, c.Minute(epoch.Add(12*time.Minute), 0), 1e-9)
	assert.InDelta(t, 0.0, c.Minute(epoch.Add(24*time.Minute), 0), 1e-9)
}

func TestMinuteSubtractsPause(t *testing.T) {
	c := Clock{Cycle: 24 * time.Minute, Start: epoch}

	now := epoch.Add(10 * time.Minute)
	assert.InDelta(t, c.Minute(epoch.Add(7*time.Minute), 0), c.Minute(now, 3*time.Minute), 1e-9)
}

func TestNewClockStartsAtRequestedMinute(t *testing.T) {
	for _, want := range []float64{0, 300, 719.5, 1439} {
		c := NewClock(2*time.Minute, epoch, want)
		assert.InDelta(t, want, c.Minute(epoch, 0), 1e-6, "minute %v", want)
	}
}

func TestNewClockDefaultsCycle(t *testing.T) {
	c := NewClock(0, epoch, 0)
	require.Equal(t, DefaultCycle, c.Cycle)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1439.5, 1439.5},
		{1440, 0},
		{1500, 60},
		{-60, 1380},
		{-2880, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Wrap(tt.in), 1e-9, "wrap %v", tt.in)
	}
	assert.False(t, math.IsNaN(Wrap(-1e-300)))
}

func TestSplit(t *testing.T) {
	h, m := Split(0)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)

	h, m = Split(210.9)
	assert.Equal(t, 3, h)
	assert.Equal(t, 30, m)

	h, m = Split(1439.99)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)
}
