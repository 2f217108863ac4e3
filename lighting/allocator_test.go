package lighting

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqSource returns the queued values in order, then repeats the last
type seqSource struct {
	vals  []float64
	calls int
}

func (s *seqSource) Float64() float64 {
	i := s.calls
	if i >= len(s.vals) {
		i = len(s.vals) - 1
	}
	s.calls++
	return s.vals[i]
}

func TestDecideIdempotentWithinNight(t *testing.T) {
	src := &seqSource{vals: []float64{0.1, 0.9}}
	a := NewAllocator(src, 0.3)

	first := a.Decide("b0-r0-c0", true)
	second := a.Decide("b0-r0-c0", true)

	assert.Equal(t, Lit, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls, "decision must be drawn once")
	assert.Equal(t, 1, a.Len())
}

func TestDecideRedrawsAfterDay(t *testing.T) {
	src := &seqSource{vals: []float64{0.1, 0.9}}
	a := NewAllocator(src, 0.3)

	require.Equal(t, Lit, a.Decide("w", true))
	require.Equal(t, Day, a.Decide("w", false))

	_, ok := a.Decided("w")
	require.False(t, ok)
	assert.Equal(t, 0, a.Len())

	assert.Equal(t, Dark, a.Decide("w", true))
	assert.Equal(t, 2, src.calls)
}

func TestDecideNoDuplicateEntries(t *testing.T) {
	a := NewAllocator(rand.New(rand.NewSource(7)), DefaultProbability)

	ids := []string{"a", "b", "c", "d"}
	for tick := 0; tick < 100; tick++ {
		for _, id := range ids {
			a.Decide(id, true)
		}
	}
	assert.Equal(t, len(ids), a.Len())
}

func TestDecideDaytimeWithoutEntry(t *testing.T) {
	src := &seqSource{vals: []float64{0.5}}
	a := NewAllocator(src, 0.3)

	assert.Equal(t, Day, a.Decide("never-seen", false))
	assert.Equal(t, 0, src.calls)
}

func TestProbabilityBoundary(t *testing.T) {
	a := NewAllocator(&seqSource{vals: []float64{0.3}}, 0.3)
	assert.Equal(t, Dark, a.Decide("x", true), "draw equal to probability is unlit")

	a = NewAllocator(&seqSource{vals: []float64{0.2999}}, 0.3)
	assert.Equal(t, Lit, a.Decide("x", true))
}

func TestLitRatioApproximatesProbability(t *testing.T) {
	a := NewAllocator(rand.New(rand.NewSource(42)), 0.3)
	for i := 0; i < 10000; i++ {
		a.Decide(string(rune('a'+i%26))+string(rune(i)), true)
	}
	ratio := float64(a.LitCount()) / float64(a.Len())
	assert.InDelta(t, 0.3, ratio, 0.03)
}

func TestInvalidProbabilityFallsBack(t *testing.T) {
	a := NewAllocator(&seqSource{vals: []float64{0.25}}, 1.5)
	assert.Equal(t, Lit, a.Decide("x", true))
}

func TestReset(t *testing.T) {
	a := NewAllocator(&seqSource{vals: []float64{0.1}}, 0.3)
	a.Decide("x", true)
	a.Decide("y", true)
	a.Reset()
	assert.Equal(t, 0, a.Len())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "day", Day.String())
	assert.Equal(t, "dark", Dark.String())
	assert.Equal(t, "lit", Lit.String())
}

func TestRetain(t *testing.T) {
	a := NewAllocator(&seqSource{vals: []float64{0.1}}, 0.3)
	a.Decide("x", true)
	a.Decide("y", true)
	a.Retain([]string{"y", "z"})

	_, ok := a.Decided("x")
	assert.False(t, ok)
	_, ok = a.Decided("y")
	assert.True(t, ok)
	assert.Equal(t, 1, a.Len())
}
