// Package celestial computes sun and moon positions along a shared parabolic
// arc from the simulated minute and the current viewport size
package celestial

import (
	"github.com/lixenwraith/skyline/cycle"
	"github.com/lixenwraith/skyline/phase"
)

// Body identifies a celestial body
type Body uint8

const (
	Sun Body = iota
	Moon
)

func (b Body) String() string {
	if b == Moon {
		return "moon"
	}
	return "sun"
}

// DefaultMoonSpan is the moon's progress span in minutes from dusk end
const DefaultMoonSpan = 960

// DefaultArcPeak is the arc apex as a fraction of viewport height
const DefaultArcPeak = 0.9

// Viewport is the drawable area the arc is fitted to
type Viewport struct {
	Width  int
	Height int
}

// Sample is the per-frame presentation state of one body
// Ephemeral: recomputed every frame, never stored
type Sample struct {
	Progress float64 // [0,1] along the body's visible span
	X        float64 // horizontal position in viewport units
	Offset   float64 // height above the horizon in viewport units
	Opacity  float64 // [0,1]
	Visible  bool
}

// Calculator derives sun and moon samples from a simulated minute
type Calculator struct {
	Bounds   phase.Boundaries
	MoonSpan float64
	ArcPeak  float64
}

// NewCalculator creates a calculator with reference moon span and arc peak
func NewCalculator(bounds phase.Boundaries) Calculator {
	return Calculator{
		Bounds:   bounds,
		MoonSpan: DefaultMoonSpan,
		ArcPeak:  DefaultArcPeak,
	}
}

// SunVisible reports dawnStart <= m < duskEnd
func (c Calculator) SunVisible(minute float64) bool {
	return minute >= c.Bounds.DawnStart && minute < c.Bounds.DuskEnd
}

// MoonVisible reports m >= duskEnd or m < dawnEnd, wrapping across midnight
func (c Calculator) MoonVisible(minute float64) bool {
	return minute >= c.Bounds.DuskEnd || minute < c.Bounds.DawnEnd
}

// Sun returns the sun sample for minute in viewport vp
func (c Calculator) Sun(minute float64, vp Viewport) Sample {
	if !c.SunVisible(minute) {
		return Sample{}
	}
	b := c.Bounds
	progress := clamp01((minute - b.DawnStart) / (b.DuskEnd - b.DawnStart))

	opacity := 1.0
	switch {
	case minute < b.DawnEnd:
		opacity = ramp(minute, b.DawnStart, b.DawnEnd)
	case minute >= b.DuskStart:
		opacity = 1 - ramp(minute, b.DuskStart, b.DuskEnd)
	}

	return c.place(progress, opacity, vp)
}

// Moon returns the moon sample for minute in viewport vp
// Progress is measured over MoonSpan starting at dusk end, on either side of midnight
func (c Calculator) Moon(minute float64, vp Viewport) Sample {
	if !c.MoonVisible(minute) {
		return Sample{}
	}
	b := c.Bounds
	span := c.MoonSpan
	if span <= 0 {
		span = DefaultMoonSpan
	}

	var progress float64
	if minute >= b.DuskEnd {
		progress = (minute - b.DuskEnd) / span
	} else {
		progress = (minute + cycle.MinutesPerDay - b.DuskEnd) / span
	}
	progress = clamp01(progress)

	opacity := 1.0
	if minute >= b.DawnStart && minute < b.DawnEnd {
		opacity = 1 - ramp(minute, b.DawnStart, b.DawnEnd)
	}

	return c.place(progress, opacity, vp)
}

// Sample dispatches to Sun or Moon
func (c Calculator) Sample(body Body, minute float64, vp Viewport) Sample {
	if body == Moon {
		return c.Moon(minute, vp)
	}
	return c.Sun(minute, vp)
}

func (c Calculator) place(progress, opacity float64, vp Viewport) Sample {
	x := progress * float64(vp.Width)
	return Sample{
		Progress: progress,
		X:        x,
		Offset:   c.Arc(x, vp),
		Opacity:  opacity,
		Visible:  true,
	}
}

// Arc returns the height above the horizon at horizontal pixel x
// offset(x) = -a(x-h)^2 + k, h is half width, k the apex, zero at both edges
func (c Calculator) Arc(x float64, vp Viewport) float64 {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0
	}
	peak := c.ArcPeak
	if peak <= 0 {
		peak = DefaultArcPeak
	}
	h := float64(vp.Width) / 2
	k := peak * float64(vp.Height)
	a := k / (h * h)
	d := x - h
	return -a*d*d + k
}

// ramp returns linear progress of v across [from, to) clamped to [0,1]
func ramp(v, from, to float64) float64 {
	if to <= from {
		return 1
	}
	return clamp01((v - from) / (to - from))
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
