// Package status is a lock-free metrics registry shared between the animation
// loop, the heartbeat hub and the debug overlay
package status

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// Well-known metric keys
const (
	FramesTotal      = "engine.frames"
	FullFrames       = "engine.full_frames"
	PhaseChanges     = "engine.phase_changes"
	MissingElements  = "render.missing"
	WindowsLit       = "lighting.lit"
	WindowsDecided   = "lighting.decided"
	HeartbeatsSent   = "heartbeat.sent"
	HeartbeatClients = "heartbeat.clients"
	SimMinute        = "clock.minute"
	HeartbeatRunning = "heartbeat.running"
)

// Registry is the central metrics facade
// Components cache pointers at construction; frame loops write directly to atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
	Bools  *MetricMap[atomic.Bool]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
		Bools:  NewMetricMap[atomic.Bool](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Bools.Count()
}

// Line renders every metric as key=value pairs in sorted key order
func (r *Registry) Line() string {
	var parts []string
	r.Ints.Range(func(k string, v *atomic.Int64) {
		parts = append(parts, k+"="+strconv.FormatInt(v.Load(), 10))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		parts = append(parts, fmt.Sprintf("%s=%.1f", k, v.Get()))
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		parts = append(parts, k+"="+strconv.FormatBool(v.Load()))
	})
	return strings.Join(parts, " ")
}

// AtomicFloat is a float64 gauge stored as raw bits; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores v
func (f *AtomicFloat) Set(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Get loads the value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add adds delta with a CAS loop and returns the result
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
