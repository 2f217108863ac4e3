package lighting

import (
	"math/rand"
	"time"
)

// DefaultProbability is the chance that a window is lit on a given night
const DefaultProbability = 0.3

// State is the lighting state reported for a window
type State uint8

const (
	// Day means no night decision applies; windows render as daytime glass
	Day State = iota
	Dark
	Lit
)

func (s State) String() string {
	switch s {
	case Dark:
		return "dark"
	case Lit:
		return "lit"
	default:
		return "day"
	}
}

// Source supplies uniform random values in [0,1)
// *rand.Rand satisfies it
type Source interface {
	Float64() float64
}

// Allocator decides once per night whether each window is lit and remembers it
// Not safe for concurrent use; owned by the animation loop
type Allocator struct {
	rng         Source
	probability float64
	decisions   map[string]bool
}

// NewAllocator creates an allocator; nil rng uses a time-seeded source
func NewAllocator(rng Source, probability float64) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if probability < 0 || probability > 1 {
		probability = DefaultProbability
	}
	return &Allocator{
		rng:         rng,
		probability: probability,
		decisions:   make(map[string]bool),
	}
}

// Decide returns the window's state for this frame
// During night the first call draws and stores, later calls return the stored value
// Outside night the stored decision is dropped so the next night draws again
func (a *Allocator) Decide(id string, isNight bool) State {
	if !isNight {
		delete(a.decisions, id)
		return Day
	}

	lit, ok := a.decisions[id]
	if !ok {
		lit = a.rng.Float64() < a.probability
		a.decisions[id] = lit
	}
	if lit {
		return Lit
	}
	return Dark
}

// Decided reports the stored decision for id, if any
func (a *Allocator) Decided(id string) (lit, ok bool) {
	lit, ok = a.decisions[id]
	return lit, ok
}

// Len returns the number of windows with a decision for the current night
func (a *Allocator) Len() int {
	return len(a.decisions)
}

// LitCount returns how many stored decisions are lit
func (a *Allocator) LitCount() int {
	n := 0
	for _, lit := range a.decisions {
		if lit {
			n++
		}
	}
	return n
}

// Reset drops every stored decision
func (a *Allocator) Reset() {
	clear(a.decisions)
}

// Retain drops decisions for ids not in keep
func (a *Allocator) Retain(keep []string) {
	live := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		live[id] = struct{}{}
	}
	for id := range a.decisions {
		if _, ok := live[id]; !ok {
			delete(a.decisions, id)
		}
	}
}
