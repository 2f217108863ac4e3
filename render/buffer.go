package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

type cell struct {
	r  rune
	fg colorful.Color
	bg colorful.Color
}

// cellBuffer composes a frame before it is flushed to the screen
// Passes read back background colours to composite translucent elements
type cellBuffer struct {
	cells  []cell
	width  int
	height int
}

func newCellBuffer(width, height int) *cellBuffer {
	b := &cellBuffer{}
	b.resize(width, height)
	return b
}

// resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *cellBuffer) resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
}

// clear fills every cell with bg using exponential copy
func (b *cellBuffer) clear(bg colorful.Color) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = cell{r: ' ', fg: bg, bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *cellBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *cellBuffer) set(x, y int, r rune, fg, bg colorful.Color) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = cell{r: r, fg: fg, bg: bg}
}

// setRune replaces glyph and foreground, keeping the background
func (b *cellBuffer) setRune(x, y int, r rune, fg colorful.Color) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.r = r
	c.fg = fg
}

// setBg replaces the background, keeping the glyph
func (b *cellBuffer) setBg(x, y int, bg colorful.Color) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x].bg = bg
}

func (b *cellBuffer) bgAt(x, y int) colorful.Color {
	if !b.inBounds(x, y) {
		return colorful.Color{}
	}
	return b.cells[y*b.width+x].bg
}

func (b *cellBuffer) text(x, y int, s string, fg, bg colorful.Color) {
	for _, r := range s {
		b.set(x, y, r, fg, bg)
		x++
	}
}

// flush writes every cell to the screen; Show is left to the caller
func (b *cellBuffer) flush(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			r := c.r
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.Foreground(toTcell(c.fg)).Background(toTcell(c.bg))
			screen.SetContent(x, y, r, nil, style)
		}
	}
}
