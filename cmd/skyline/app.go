package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/audio"
	"github.com/lixenwraith/skyline/celestial"
	"github.com/lixenwraith/skyline/config"
	"github.com/lixenwraith/skyline/core"
	"github.com/lixenwraith/skyline/cycle"
	"github.com/lixenwraith/skyline/engine"
	"github.com/lixenwraith/skyline/heartbeat"
	"github.com/lixenwraith/skyline/lighting"
	"github.com/lixenwraith/skyline/phase"
	"github.com/lixenwraith/skyline/playback"
	"github.com/lixenwraith/skyline/render"
	"github.com/lixenwraith/skyline/status"
)

// deps are the process-level collaborators an app is assembled from
type deps struct {
	screen   tcell.Screen
	clock    clockwork.Clock
	sched    playback.Scheduler
	player   audio.Player
	sink     heartbeat.Sink
	registry *status.Registry
	logger   *zap.Logger
}

// app owns every piece of animation state; all methods run on the loop goroutine
type app struct {
	screen  tcell.Screen
	clock   clockwork.Clock
	ctrl    *playback.Controller
	surface *render.TerminalSurface
	engine  *engine.Engine
	beacon  *heartbeat.Beacon
	hbAddr  string
	logger  *zap.Logger
}

func newApp(cfg *config.Config, d deps) *app {
	now := d.clock.Now()

	seed := cfg.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	bounds, err := cfg.Boundaries(now)
	if err != nil {
		d.logger.Warn("using static phase boundaries", zap.Error(err))
	}

	calc := celestial.NewCalculator(bounds)
	calc.MoonSpan = cfg.Celestial.MoonSpan
	calc.ArcPeak = cfg.Celestial.ArcPeak

	surface := render.NewTerminalSurface(d.screen,
		render.WithSeed(seed),
		render.WithFade(cfg.Playback.Fade),
		render.WithMetrics(d.registry),
		render.WithSurfaceLogger(d.logger.Named("render")))

	allocator := lighting.NewAllocator(rand.New(rand.NewSource(seed)), cfg.Lighting.Probability)
	eng := engine.New(bounds, calc, allocator, surface, d.registry, d.logger.Named("engine"))
	eng.OnPhaseChange(func(from, to phase.Phase, _ float64) {
		d.player.Cue(from, to)
	})

	clock := cycle.NewClock(cfg.Cycle, now, cfg.StartMinute)
	ctrl := playback.New(clock, now, d.sched, eng,
		playback.WithThrottle(cfg.Playback.Throttle),
		playback.WithLogger(d.logger.Named("playback")))

	a := &app{
		screen:  d.screen,
		clock:   d.clock,
		ctrl:    ctrl,
		surface: surface,
		engine:  eng,
		beacon:  heartbeat.NewBeacon(d.clock, cfg.Heartbeat.Interval, d.sink, d.registry),
		logger:  d.logger,
	}
	if cfg.Heartbeat.Enabled {
		a.hbAddr = cfg.Heartbeat.Addr
		a.beacon.Start()
	}
	d.logger.Info("skyline ready",
		zap.Int64("seed", seed),
		zap.Duration("cycle", cfg.Cycle),
		zap.Float64("start_minute", cfg.StartMinute),
		zap.Any("boundaries", bounds),
		zap.String("session", a.beacon.Session()))
	return a
}

// start begins playback and draws the first frame
func (a *app) start() {
	now := a.clock.Now()
	a.ctrl.Play(now)
	a.updateStatus()
	a.ctrl.Refresh(now)
}

// run is the single select loop; frames, input and heartbeats all land here
func (a *app) run(ctx context.Context, frames *playback.FrameScheduler) {
	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if a.handleEvent(ev) {
				return
			}
		case p := <-frames.C():
			frames.Dispatch(p)
		case now := <-a.beacon.C():
			a.beacon.Beat(now, a.ctrl.Minute(now), a.ctrl.State() == playback.Playing)
		}
	}
}

// handleEvent applies one input event and reports whether to quit
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.surface.Resize()
		a.engine.Resized()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			if a.handleRune(ev.Rune()) {
				return true
			}
		default:
			return false
		}
	default:
		return false
	}

	a.updateStatus()
	a.ctrl.Refresh(a.clock.Now())
	return false
}

func (a *app) handleRune(r rune) (quit bool) {
	now := a.clock.Now()
	switch r {
	case 'q':
		return true
	case ' ':
		state := a.ctrl.Toggle(now)
		a.logger.Debug("toggle playback", zap.Stringer("state", state))
	case 'c':
		a.surface.SetMode(a.surface.Mode().Next())
	case 'h':
		// No server is listening when the heartbeat is disabled
		if a.hbAddr == "" {
			return false
		}
		a.logger.Info("heartbeat toggled", zap.Bool("running", a.beacon.Toggle()))
	case 'd':
		a.surface.ToggleDebug()
	}
	return false
}

func (a *app) updateStatus() {
	var b strings.Builder
	b.WriteString(" space play/pause  c clock  h heartbeat  d debug  q quit  |  ")
	b.WriteString(a.ctrl.State().String())
	fmt.Fprintf(&b, "  clock:%s", a.surface.Mode())
	if a.beacon.Running() {
		fmt.Fprintf(&b, "  heartbeat:%s", a.hbAddr)
	} else {
		b.WriteString("  heartbeat:off")
	}
	a.surface.SetStatus(b.String())
}
