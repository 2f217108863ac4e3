package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/skyline/phase"
)

// Palette is the colour scheme of one phase
// Night is darker and cooler, dawn and dusk warm toward the horizon
type Palette struct {
	Zenith  colorful.Color
	Horizon colorful.Color
	Ground  colorful.Color
	Facade  colorful.Color
	Roof    colorful.Color
	Cloud   colorful.Color
	Glass   colorful.Color // unlit window
	Stars   float64        // star visibility [0,1]
	Lamps   float64        // streetlamp glow [0,1]
}

var palettes = [phase.Count]Palette{
	phase.Night: {
		Zenith:  mustHex("#05070f"),
		Horizon: mustHex("#141a33"),
		Ground:  mustHex("#0c0d12"),
		Facade:  mustHex("#1b1e2b"),
		Roof:    mustHex("#2a1f24"),
		Cloud:   mustHex("#2b3045"),
		Glass:   mustHex("#0f1220"),
		Stars:   1,
		Lamps:   1,
	},
	phase.Dawn: {
		Zenith:  mustHex("#3a4a7a"),
		Horizon: mustHex("#f2a65a"),
		Ground:  mustHex("#2b2622"),
		Facade:  mustHex("#4a4150"),
		Roof:    mustHex("#6b3a32"),
		Cloud:   mustHex("#f6c6b0"),
		Glass:   mustHex("#5a5f7a"),
		Stars:   0.2,
		Lamps:   0.4,
	},
	phase.Day: {
		Zenith:  mustHex("#3f8fd8"),
		Horizon: mustHex("#a9d8f5"),
		Ground:  mustHex("#4f5a3a"),
		Facade:  mustHex("#8a8f99"),
		Roof:    mustHex("#9c4a3a"),
		Cloud:   mustHex("#f7f9fc"),
		Glass:   mustHex("#b8d4e3"),
	},
	phase.Dusk: {
		Zenith:  mustHex("#2c2350"),
		Horizon: mustHex("#e3664a"),
		Ground:  mustHex("#231c1f"),
		Facade:  mustHex("#3d3446"),
		Roof:    mustHex("#5a2e30"),
		Cloud:   mustHex("#c98a8a"),
		Glass:   mustHex("#3c3650"),
		Stars:   0.3,
		Lamps:   0.8,
	},
}

// Fixed element colours
var (
	colorLit      = mustHex("#ffd45e")
	colorSun      = mustHex("#ffe27a")
	colorMoon     = mustHex("#e8ecf5")
	colorStar     = mustHex("#fdfdf0")
	colorLampOn   = mustHex("#ffcf6b")
	colorLampOff  = mustHex("#6d6d6d")
	colorPole     = mustHex("#3a3a3a")
	colorClockFg  = mustHex("#f0f0f0")
	colorClockBg  = mustHex("#1c1c28")
	colorStatusFg = mustHex("#000000")
	colorStatusBg = mustHex("#87cefa")
	colorHandHour = mustHex("#ff9f43")
	colorHandMin  = mustHex("#54a0ff")
)

// mustHex parses a #rrggbb literal, panicking on malformed input
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("render: bad colour %q: %v", s, err))
	}
	return c
}

// PaletteFor returns the palette of phase p
func PaletteFor(p phase.Phase) Palette {
	if int(p) >= phase.Count {
		return palettes[phase.Night]
	}
	return palettes[p]
}

// Blend interpolates every colour of p toward q by t in Lab space
func (p Palette) Blend(q Palette, t float64) Palette {
	if t <= 0 {
		return p
	}
	if t >= 1 {
		return q
	}
	return Palette{
		Zenith:  p.Zenith.BlendLab(q.Zenith, t),
		Horizon: p.Horizon.BlendLab(q.Horizon, t),
		Ground:  p.Ground.BlendLab(q.Ground, t),
		Facade:  p.Facade.BlendLab(q.Facade, t),
		Roof:    p.Roof.BlendLab(q.Roof, t),
		Cloud:   p.Cloud.BlendLab(q.Cloud, t),
		Glass:   p.Glass.BlendLab(q.Glass, t),
		Stars:   p.Stars + (q.Stars-p.Stars)*t,
		Lamps:   p.Lamps + (q.Lamps-p.Lamps)*t,
	}
}

// SkyAt returns the sky colour at row y of a sky height rows tall
func (p Palette) SkyAt(y, height int) colorful.Color {
	if height <= 1 {
		return p.Horizon
	}
	t := float64(y) / float64(height-1)
	return p.Zenith.BlendLab(p.Horizon, t)
}

// toTcell converts to a truecolor tcell colour
func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// over composites fg onto bg with alpha in [0,1]
func over(fg, bg colorful.Color, alpha float64) colorful.Color {
	if alpha <= 0 {
		return bg
	}
	if alpha >= 1 {
		return fg
	}
	return bg.BlendRgb(fg, alpha)
}
