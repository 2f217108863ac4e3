// Package phase classifies a simulated minute of day into one of four
// lighting regimes and exposes the cyclic order used for cross-fade staging
package phase

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/skyline/cycle"
)

// Phase is the current visual and lighting regime
type Phase uint8

const (
	Night Phase = iota
	Dawn
	Day
	Dusk
)

// Count is the number of phases
const Count = 4

// All lists phases in cyclic order starting at Night
var All = [Count]Phase{Night, Dawn, Day, Dusk}

var names = [Count]string{"night", "dawn", "day", "dusk"}

func (p Phase) String() string {
	if int(p) < Count {
		return names[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Next returns the phase that follows p: night, dawn, day, dusk, night
func Next(p Phase) Phase {
	return (p + 1) % Count
}

// Stacking order values for sky layers
const (
	ZBack    = 0
	ZNext    = 1
	ZCurrent = 2
)

// StackOrder returns the stacking value of layer while current is active
// The current layer is frontmost and the upcoming one sits directly beneath it
func StackOrder(layer, current Phase) int {
	switch layer {
	case current:
		return ZCurrent
	case Next(current):
		return ZNext
	default:
		return ZBack
	}
}

// ErrInvalidBoundaries is returned when boundaries do not tile the day
var ErrInvalidBoundaries = errors.New("invalid phase boundaries")

// Boundaries are the minute thresholds separating the four phases
// Night wraps across midnight: [DuskEnd, 1440) and [0, DawnStart)
type Boundaries struct {
	DawnStart float64 `koanf:"dawn_start"`
	DawnEnd   float64 `koanf:"dawn_end"` // also day start
	DuskStart float64 `koanf:"dusk_start"` // also day end
	DuskEnd   float64 `koanf:"dusk_end"`   // also night start
}

// DefaultBoundaries returns 05:00 dawn, 07:00 day, 17:00 dusk, 19:00 night
func DefaultBoundaries() Boundaries {
	return Boundaries{
		DawnStart: 300,
		DawnEnd:   420,
		DuskStart: 1020,
		DuskEnd:   1140,
	}
}

// Validate checks that boundaries are strictly ordered within [0, 1440)
func (b Boundaries) Validate() error {
	if b.DawnStart < 0 || b.DuskEnd >= cycle.MinutesPerDay {
		return fmt.Errorf("%w: outside [0,%d): %+v", ErrInvalidBoundaries, cycle.MinutesPerDay, b)
	}
	if !(b.DawnStart < b.DawnEnd && b.DawnEnd < b.DuskStart && b.DuskStart < b.DuskEnd) {
		return fmt.Errorf("%w: not strictly ordered: %+v", ErrInvalidBoundaries, b)
	}
	return nil
}

// Classify maps a minute to its phase using half-open intervals
// A boundary minute belongs to the phase that starts there
func (b Boundaries) Classify(minute float64) Phase {
	switch {
	case minute >= b.DawnStart && minute < b.DawnEnd:
		return Dawn
	case minute >= b.DawnEnd && minute < b.DuskStart:
		return Day
	case minute >= b.DuskStart && minute < b.DuskEnd:
		return Dusk
	default:
		return Night
	}
}

// Start returns the minute at which p begins
func (b Boundaries) Start(p Phase) float64 {
	switch p {
	case Dawn:
		return b.DawnStart
	case Day:
		return b.DawnEnd
	case Dusk:
		return b.DuskStart
	default:
		return b.DuskEnd
	}
}

// End returns the minute at which p gives way to Next(p)
func (b Boundaries) End(p Phase) float64 {
	return b.Start(Next(p))
}

// Progress returns how far minute is through phase p in [0,1]
// Night is measured across midnight
func (b Boundaries) Progress(p Phase, minute float64) float64 {
	start, end := b.Start(p), b.End(p)
	span := end - start
	pos := minute - start
	if p == Night {
		span += cycle.MinutesPerDay
		if pos < 0 {
			pos += cycle.MinutesPerDay
		}
	}
	if span <= 0 {
		return 0
	}
	return clamp01(pos / span)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
