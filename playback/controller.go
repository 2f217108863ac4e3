// Package playback owns play/pause state and the pause bookkeeping of the
// simulated clock, and drives the per-frame loop through a Scheduler
package playback

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/cycle"
)

// DefaultThrottle limits full state recomputation to 10Hz
const DefaultThrottle = 100 * time.Millisecond

// State is the playback state
// There is no separate paused state: Stopped keeps resumable pause bookkeeping
type State uint8

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Frame is the per-tick input to the stepper
type Frame struct {
	Now    time.Time
	Minute float64
	// Full is set at most once per throttle interval; phase and window work run only on full frames
	Full bool
}

// Stepper consumes frames
type Stepper interface {
	Step(f Frame)
}

// StepFunc adapts a function to Stepper
type StepFunc func(f Frame)

// Step implements Stepper
func (fn StepFunc) Step(f Frame) { fn(f) }

// Controller is the play/pause state machine
// Not safe for concurrent use; every call happens on the animation goroutine
type Controller struct {
	clock   cycle.Clock
	ledger  Ledger
	state   State
	sched   Scheduler
	stepper Stepper

	throttle time.Duration
	lastFull time.Time
	ticks    uint64

	logger *zap.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithThrottle sets the minimum interval between full frames
func WithThrottle(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.throttle = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a stopped controller
// The clock is held at its reading at now until the first Play
func New(clock cycle.Clock, now time.Time, sched Scheduler, stepper Stepper, opts ...Option) *Controller {
	c := &Controller{
		clock:    clock,
		sched:    sched,
		stepper:  stepper,
		throttle: DefaultThrottle,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ledger.Begin(now)
	return c
}

// Play resumes: closes the open pause and arms the next tick
func (c *Controller) Play(now time.Time) {
	if c.state == Playing {
		return
	}
	c.ledger.End(now)
	c.state = Playing
	c.lastFull = time.Time{}
	c.logger.Debug("playback started",
		zap.Float64("minute", c.Minute(now)),
		zap.Duration("paused_total", c.ledger.Accumulated()))
	c.sched.Schedule(c.Tick)
}

// Pause stops the loop and opens a pause at now
func (c *Controller) Pause(now time.Time) {
	if c.state != Playing {
		return
	}
	c.state = Stopped
	c.ledger.Begin(now)
	c.sched.Cancel()
	c.logger.Debug("playback paused", zap.Float64("minute", c.Minute(now)))
}

// Toggle switches between Playing and Stopped
func (c *Controller) Toggle(now time.Time) State {
	if c.state == Playing {
		c.Pause(now)
	} else {
		c.Play(now)
	}
	return c.state
}

// Tick runs one frame and re-arms itself; no-op unless Playing
func (c *Controller) Tick(now time.Time) {
	if c.state != Playing {
		return
	}
	c.ticks++

	full := c.lastFull.IsZero() || now.Sub(c.lastFull) >= c.throttle
	if full {
		c.lastFull = now
	}
	c.stepper.Step(Frame{Now: now, Minute: c.Minute(now), Full: full})

	if c.state == Playing {
		c.sched.Schedule(c.Tick)
	}
}

// Refresh runs a full frame at now without touching scheduling
// Used to redraw on resize or input while stopped
func (c *Controller) Refresh(now time.Time) {
	c.stepper.Step(Frame{Now: now, Minute: c.Minute(now), Full: true})
}

// Minute returns the simulated minute at now
func (c *Controller) Minute(now time.Time) float64 {
	return c.clock.Minute(now, c.ledger.Total(now))
}

// State returns the playback state
func (c *Controller) State() State {
	return c.state
}

// Ticks returns the number of frames run while playing
func (c *Controller) Ticks() uint64 {
	return c.ticks
}

// PausedTotal returns the pause time accumulated up to now
func (c *Controller) PausedTotal(now time.Time) time.Duration {
	return c.ledger.Total(now)
}
