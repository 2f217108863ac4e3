package cycle

import (
	"math"
	"time"
)

// MinutesPerDay is the length of the simulated day in minutes
const MinutesPerDay = 1440

// DefaultCycle is the real-time length of one simulated day
const DefaultCycle = 2 * time.Minute

// Clock maps real elapsed time onto a cyclical simulated minute of day
// Start is the real instant corresponding to simulated minute 0
type Clock struct {
	Cycle time.Duration
	Start time.Time
}

// NewClock creates a clock positioned so that now reads as the given minute
func NewClock(cycle time.Duration, now time.Time, minute float64) Clock {
	if cycle <= 0 {
		cycle = DefaultCycle
	}
	return Clock{
		Cycle: cycle,
		Start: StartFor(now, minute, cycle),
	}
}

// StartFor returns the epoch that makes now read as minute with no pause accumulated
func StartFor(now time.Time, minute float64, cycle time.Duration) time.Time {
	minute = Wrap(minute)
	offset := time.Duration(minute / MinutesPerDay * float64(cycle))
	return now.Add(-offset)
}

// Elapsed returns effective elapsed time: real elapsed minus time spent paused
func (c Clock) Elapsed(now time.Time, paused time.Duration) time.Duration {
	return now.Sub(c.Start) - paused
}

// Minute returns the simulated minute in [0, 1440) for the given instant
// Pure: depends only on now, Start, Cycle and the paused total
func (c Clock) Minute(now time.Time, paused time.Duration) float64 {
	if c.Cycle <= 0 {
		return 0
	}
	elapsed := c.Elapsed(now, paused) % c.Cycle
	if elapsed < 0 {
		elapsed += c.Cycle
	}
	m := float64(elapsed) / float64(c.Cycle) * MinutesPerDay
	// Float rounding on the last nanosecond of a cycle can land exactly on 1440
	if m >= MinutesPerDay {
		m = 0
	}
	return m
}

// Wrap normalizes any minute value into [0, 1440)
func Wrap(minute float64) float64 {
	m := math.Mod(minute, MinutesPerDay)
	if m < 0 {
		m += MinutesPerDay
	}
	if m >= MinutesPerDay {
		m = 0
	}
	return m
}

// Split returns the whole hour [0,24) and minute [0,60) of a simulated minute
func Split(minute float64) (hour, min int) {
	total := int(math.Floor(Wrap(minute)))
	return total / 60, total % 60
}
