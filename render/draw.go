package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/skyline/celestial"
	"github.com/lixenwraith/skyline/clockface"
	"github.com/lixenwraith/skyline/lighting"
)

const (
	glyphSun     = '●'
	glyphMoon    = '◐'
	glyphStar    = '·'
	glyphStarBig = '*'
	glyphPole    = '│'
	glyphLamp    = 'o'
	glyphDoor    = '▯'
	cloudAlpha   = 0.85
	glowAlpha    = 0.25
)

func (s *TerminalSurface) drawSky(f *frame) {
	for y := 0; y < f.ground; y++ {
		c := f.pal.SkyAt(y, f.ground)
		for x := 0; x < f.width; x++ {
			f.buf.set(x, y, ' ', c, c)
		}
	}
}

func (s *TerminalSurface) drawStars(f *frame) {
	if f.pal.Stars <= 0 {
		return
	}
	for _, st := range s.scene.Stars {
		if st.Y >= f.ground {
			continue
		}
		bg := f.buf.bgAt(st.X, st.Y)
		r, alpha := glyphStar, f.pal.Stars*0.6
		if st.Bright {
			r, alpha = glyphStarBig, f.pal.Stars
		}
		f.buf.setRune(st.X, st.Y, r, over(colorStar, bg, alpha))
	}
}

func (s *TerminalSurface) drawBodies(f *frame) {
	s.drawBody(f, s.bodies[celestial.Moon], glyphMoon, colorMoon)
	s.drawBody(f, s.bodies[celestial.Sun], glyphSun, colorSun)
}

// bodyCell maps a sample to a cell; offset counts rows above the ground line
func bodyCell(sample celestial.Sample, width, ground int) (x, y int) {
	x = int(math.Round(sample.X))
	if x >= width {
		x = width - 1
	}
	if x < 0 {
		x = 0
	}
	y = ground - 1 - int(math.Round(sample.Offset))
	if y < 0 {
		y = 0
	}
	if y >= ground {
		y = ground - 1
	}
	return x, y
}

func (s *TerminalSurface) drawBody(f *frame, sample celestial.Sample, glyph rune, color colorful.Color) {
	if !sample.Visible || sample.Opacity <= 0 || f.ground <= 0 || f.width <= 0 {
		return
	}
	x, y := bodyCell(sample, f.width, f.ground)

	// Soft glow on the neighbouring cells
	for dx := -2; dx <= 2; dx++ {
		if dx == 0 {
			continue
		}
		bg := f.buf.bgAt(x+dx, y)
		f.buf.setBg(x+dx, y, over(color, bg, glowAlpha*sample.Opacity/float64(abs(dx))))
	}
	bg := f.buf.bgAt(x, y)
	f.buf.setRune(x, y, glyph, over(color, bg, sample.Opacity))
}

func (s *TerminalSurface) drawClouds(f *frame) {
	for _, c := range s.scene.Clouds {
		maxW := c.Width()
		for r, w := range c.Puffs {
			y := c.Y + r
			if y >= f.ground {
				continue
			}
			x0 := int(math.Floor(c.X)) + (maxW-w)/2
			for x := x0; x < x0+w; x++ {
				bg := f.buf.bgAt(x, y)
				f.buf.set(x, y, ' ', bg, over(f.pal.Cloud, bg, cloudAlpha))
			}
		}
	}
}

func (s *TerminalSurface) windowColor(id string, pal Palette) colorful.Color {
	if wc, ok := s.windows[id]; ok && wc.state == lighting.Lit {
		return colorLit
	}
	return pal.Glass
}

func (s *TerminalSurface) drawBuildings(f *frame) {
	for _, b := range s.scene.Buildings {
		facade := f.pal.Facade.BlendLab(f.pal.Zenith, 0.3*b.Tone)
		for y := b.Y; y < b.Y+b.Height && y < f.ground; y++ {
			for x := b.X; x < b.X+b.Width; x++ {
				f.buf.set(x, y, ' ', facade, facade)
			}
		}
		for _, w := range b.Windows {
			c := s.windowColor(w.ID, f.pal)
			f.buf.set(w.X, w.Y, ' ', c, c)
		}
	}
}

func (s *TerminalSurface) drawStreet(f *frame) {
	for _, h := range s.scene.Houses {
		wall := f.pal.Facade.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.15)
		// Roof
		ry := h.Y - 1
		for x := h.X; x < h.X+h.Width; x++ {
			r := '▀'
			switch x {
			case h.X:
				r = '/'
			case h.X + h.Width - 1:
				r = '\\'
			}
			f.buf.set(x, ry, r, f.pal.Roof, f.buf.bgAt(x, ry))
		}
		for y := h.Y; y < h.Y+h.Height && y < f.ground; y++ {
			for x := h.X; x < h.X+h.Width; x++ {
				f.buf.set(x, y, ' ', wall, wall)
			}
		}
		for _, w := range h.Windows {
			c := s.windowColor(w.ID, f.pal)
			f.buf.set(w.X, w.Y, ' ', c, c)
		}
		door := h.X + h.Width/2
		f.buf.setRune(door, f.ground-1, glyphDoor, f.pal.Roof)
	}

	for _, l := range s.scene.Lamps {
		for y := l.Y + 1; y < f.ground; y++ {
			f.buf.setRune(l.X, y, glyphPole, colorPole)
		}
		head := colorLampOff.BlendLab(colorLampOn, f.pal.Lamps)
		f.buf.setRune(l.X, l.Y, glyphLamp, head)
		if f.pal.Lamps > 0.5 {
			for dx := -1; dx <= 1; dx++ {
				bg := f.buf.bgAt(l.X+dx, l.Y)
				f.buf.setBg(l.X+dx, l.Y, over(colorLampOn, bg, 0.3*f.pal.Lamps))
			}
		}
	}
}

func (s *TerminalSurface) drawGround(f *frame) {
	for x := 0; x < f.width; x++ {
		f.buf.set(x, f.ground, '▔', f.pal.Facade, f.pal.Ground)
	}
}

func (s *TerminalSurface) drawClock(f *frame) {
	switch s.mode {
	case clockface.ModeDigital:
		line1 := " " + s.face.Digital + " "
		line2 := " min " + s.face.Raw + " "
		w := max(len(line1), len(line2))
		x := f.width - w - 1
		f.buf.text(x, 0, pad(line1, w), colorClockFg, colorClockBg)
		f.buf.text(x, 1, pad(line2, w), colorClockFg, colorClockBg)
	case clockface.ModeAnalog:
		drawDial(f.buf, f.width-analogWidth-1, 0, s.face)
	}
}

func (s *TerminalSurface) drawStatus(f *frame) {
	y := f.height - 1
	if y <= f.ground {
		return
	}
	for x := 0; x < f.width; x++ {
		f.buf.set(x, y, ' ', colorStatusFg, colorStatusBg)
	}
	f.buf.text(1, y, s.status, colorStatusFg, colorStatusBg)
}

func (s *TerminalSurface) drawDebug(f *frame) {
	if !s.debug || s.metrics == nil {
		return
	}
	f.buf.text(0, 0, s.metrics.Line(), colorClockFg, colorClockBg)
}

func pad(s string, w int) string {
	for len(s) < w {
		s += " "
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
