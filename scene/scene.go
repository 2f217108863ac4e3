// Package scene generates the decorative cityscape: buildings, houses,
// streetlamps, clouds and stars. Generation is stateless given the random source
package scene

import (
	"fmt"
	"time"
)

// Rand is the random source used for generation
// *rand.Rand satisfies it
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Window is a single window cell with a stable identity
type Window struct {
	ID string
	X  int
	Y  int
}

// Building is a tall block in the back row
type Building struct {
	X, Y          int // top-left
	Width, Height int
	Tone          float64 // [0,1] facade brightness variation
	Windows       []Window
}

// House is a low front-row dwelling with a pitched roof
type House struct {
	X, Y          int // top-left of the walls, roof sits one row above
	Width, Height int
	Windows       []Window
}

// Lamp is a streetlamp standing on the ground line
type Lamp struct {
	X      int
	Y      int // lamp head row
	Height int
}

// Cloud is a drifting cluster of puffs
type Cloud struct {
	X     float64
	Y     int
	Puffs []int // per-row widths, top to bottom
	Speed float64 // cells per second
}

// Width returns the widest row of the cloud
func (c Cloud) Width() int {
	w := 0
	for _, p := range c.Puffs {
		if p > w {
			w = p
		}
	}
	return w
}

// Star is a fixed night-sky point
type Star struct {
	X, Y   int
	Bright bool
}

// Scene is the generated décor for one viewport size
type Scene struct {
	Width, Height int
	Ground        int // row of the ground line
	Buildings     []Building
	Houses        []House
	Lamps         []Lamp
	Clouds        []Cloud
	Stars         []Star
}

// WindowIDs returns every window identity in draw order
func (s Scene) WindowIDs() []string {
	var ids []string
	for _, b := range s.Buildings {
		for _, w := range b.Windows {
			ids = append(ids, w.ID)
		}
	}
	for _, h := range s.Houses {
		for _, w := range h.Windows {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

// Drift advances clouds by dt and wraps them across the viewport
func Drift(clouds []Cloud, dt time.Duration, width int) {
	if width <= 0 {
		return
	}
	sec := dt.Seconds()
	for i := range clouds {
		c := &clouds[i]
		c.X += c.Speed * sec
		w := float64(c.Width())
		if c.X > float64(width) {
			c.X = -w
		}
	}
}

func buildingWindowID(b, row, col int) string {
	return fmt.Sprintf("b%d-r%d-c%d", b, row, col)
}

func houseWindowID(h, n int) string {
	return fmt.Sprintf("h%d-w%d", h, n)
}
