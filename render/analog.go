package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/skyline/clockface"
)

// Analog dial geometry in cells; columns are doubled for the terminal aspect ratio
const (
	analogWidth  = 13
	analogHeight = 7
	dialRadius   = 3.0
	hourLength   = 1.8
	minuteLength = 2.8
)

// drawDial draws an ASCII clock face with its top-left at x0,y0
func drawDial(buf *cellBuffer, x0, y0 int, face clockface.Face) {
	for y := y0; y < y0+analogHeight; y++ {
		for x := x0; x < x0+analogWidth; x++ {
			buf.set(x, y, ' ', colorClockFg, colorClockBg)
		}
	}
	cx := x0 + analogWidth/2
	cy := y0 + analogHeight/2

	for h := 0; h < 12; h++ {
		x, y := dialPoint(cx, cy, float64(h)*30, dialRadius)
		r := '·'
		if h%3 == 0 {
			r = 'o'
		}
		buf.setRune(x, y, r, colorClockFg)
	}

	drawHand(buf, cx, cy, face.MinuteDeg, minuteLength, colorHandMin)
	drawHand(buf, cx, cy, face.HourDeg, hourLength, colorHandHour)
	buf.setRune(cx, cy, '+', colorClockFg)
}

func drawHand(buf *cellBuffer, cx, cy int, deg, length float64, c colorful.Color) {
	r := handRune(deg)
	for step := 0.5; step <= length; step += 0.5 {
		x, y := dialPoint(cx, cy, deg, step)
		if x == cx && y == cy {
			continue
		}
		buf.setRune(x, y, r, c)
	}
}

// dialPoint maps an angle (0 at twelve, clockwise) and radius to a cell
func dialPoint(cx, cy int, deg, radius float64) (int, int) {
	rad := deg * math.Pi / 180
	x := cx + int(math.Round(math.Sin(rad)*radius*2))
	y := cy - int(math.Round(math.Cos(rad)*radius))
	return x, y
}

// handRune picks a line glyph matching the hand direction
func handRune(deg float64) rune {
	a := math.Mod(deg, 180)
	if a < 0 {
		a += 180
	}
	switch {
	case a < 22.5 || a >= 157.5:
		return '|'
	case a < 67.5:
		return '/'
	case a < 112.5:
		return '-'
	default:
		return '\\'
	}
}
