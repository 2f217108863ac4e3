// Package engine turns each playback frame into presentation state: phase
// layers, celestial samples, window lighting and the clock display
package engine

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/celestial"
	"github.com/lixenwraith/skyline/clockface"
	"github.com/lixenwraith/skyline/lighting"
	"github.com/lixenwraith/skyline/phase"
	"github.com/lixenwraith/skyline/playback"
	"github.com/lixenwraith/skyline/render"
	"github.com/lixenwraith/skyline/status"
)

// PhaseListener is notified when the classified phase changes
type PhaseListener func(from, to phase.Phase, minute float64)

// Engine implements playback.Stepper against a render.Surface
// All state is owned by the animation goroutine
type Engine struct {
	bounds    phase.Boundaries
	calc      celestial.Calculator
	allocator *lighting.Allocator
	surface   render.Surface

	current   phase.Phase
	known     bool
	listeners []PhaseListener

	logger *zap.Logger

	// Cached metric pointers
	statFrames  *atomic.Int64
	statFull    *atomic.Int64
	statChanges *atomic.Int64
	statMissing *atomic.Int64
	statLit     *atomic.Int64
	statDecided *atomic.Int64
	statMinute  *status.AtomicFloat
}

// New creates an engine writing to surface
// A nil registry gets a private one so metric pointers are always valid
func New(bounds phase.Boundaries, calc celestial.Calculator, allocator *lighting.Allocator, surface render.Surface, reg *status.Registry, logger *zap.Logger) *Engine {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		bounds:      bounds,
		calc:        calc,
		allocator:   allocator,
		surface:     surface,
		logger:      logger,
		statFrames:  reg.Ints.Get(status.FramesTotal),
		statFull:    reg.Ints.Get(status.FullFrames),
		statChanges: reg.Ints.Get(status.PhaseChanges),
		statMissing: reg.Ints.Get(status.MissingElements),
		statLit:     reg.Ints.Get(status.WindowsLit),
		statDecided: reg.Ints.Get(status.WindowsDecided),
		statMinute:  reg.Floats.Get(status.SimMinute),
	}
}

// OnPhaseChange registers a listener, must be called before the loop starts
func (e *Engine) OnPhaseChange(fn PhaseListener) {
	e.listeners = append(e.listeners, fn)
}

// Phase returns the last classified phase
func (e *Engine) Phase() (phase.Phase, bool) {
	return e.current, e.known
}

// Step implements playback.Stepper
// Celestial and clock updates run every frame; phase and windows only on full frames
func (e *Engine) Step(f playback.Frame) {
	e.statFrames.Add(1)
	e.statMinute.Set(f.Minute)

	vp := e.surface.Viewport()
	e.check("sun", e.surface.SetBody(celestial.Sun, e.calc.Sun(f.Minute, vp)))
	e.check("moon", e.surface.SetBody(celestial.Moon, e.calc.Moon(f.Minute, vp)))
	e.check("clock", e.surface.SetClock(clockface.FaceAt(f.Minute)))

	if f.Full {
		e.statFull.Add(1)
		e.updatePhase(f.Minute)
		e.updateWindows()
	}

	e.check("present", e.surface.Present(f.Now))
}

func (e *Engine) updatePhase(minute float64) {
	p := e.bounds.Classify(minute)
	if e.known && p == e.current {
		return
	}
	from, had := e.current, e.known
	e.current, e.known = p, true

	for _, layer := range phase.All {
		err := e.surface.SetSkyLayer(layer, layer == p, phase.StackOrder(layer, p))
		e.check("sky."+layer.String(), err)
	}

	if !had {
		e.logger.Info("initial phase", zap.Stringer("phase", p), zap.Float64("minute", minute))
		return
	}
	e.statChanges.Add(1)
	e.logger.Info("phase change",
		zap.Stringer("from", from),
		zap.Stringer("to", p),
		zap.Stringer("next", phase.Next(p)),
		zap.Float64("minute", minute))
	for _, fn := range e.listeners {
		fn(from, p, minute)
	}
}

func (e *Engine) updateWindows() {
	isNight := e.current == phase.Night
	for _, id := range e.surface.WindowIDs() {
		state := e.allocator.Decide(id, isNight)
		e.check("window", e.surface.SetWindow(id, state))
	}
	e.statDecided.Store(int64(e.allocator.Len()))
	e.statLit.Store(int64(e.allocator.LitCount()))
}

// Resized drops decisions for windows that no longer exist after a layout change
func (e *Engine) Resized() {
	e.allocator.Retain(e.surface.WindowIDs())
}

// check logs a surface error and lets the frame continue
func (e *Engine) check(element string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, render.ErrMissingElement) {
		e.statMissing.Add(1)
		e.logger.Warn("render element missing", zap.String("element", element), zap.Error(err))
		return
	}
	e.logger.Error("render failed", zap.String("element", element), zap.Error(err))
}
