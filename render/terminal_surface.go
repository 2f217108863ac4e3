package render

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/celestial"
	"github.com/lixenwraith/skyline/clockface"
	"github.com/lixenwraith/skyline/lighting"
	"github.com/lixenwraith/skyline/phase"
	"github.com/lixenwraith/skyline/scene"
	"github.com/lixenwraith/skyline/status"
)

// DefaultFade is how long the sky takes to cross-fade between phase layers
const DefaultFade = 1500 * time.Millisecond

// maxDriftStep caps cloud movement after a long stall or pause
const maxDriftStep = time.Second

type layerState struct {
	active bool
	z      int
}

type windowCell struct {
	x, y  int
	state lighting.State
}

// frame is the per-Present drawing context shared by passes
type frame struct {
	buf    *cellBuffer
	pal    Palette
	width  int
	height int
	ground int
}

// TerminalSurface is a Surface drawn on a tcell screen
// Not safe for concurrent use; owned by the animation loop
type TerminalSurface struct {
	screen tcell.Screen
	seed   int64
	scene  scene.Scene

	windows map[string]*windowCell
	ids     []string

	layers    [phase.Count]layerState
	shown     phase.Phase
	fadeFrom  phase.Phase
	fadeStart time.Time
	fade      time.Duration
	started   bool

	bodies [2]celestial.Sample
	face   clockface.Face
	mode   clockface.Mode
	status string

	metrics *status.Registry
	debug   bool

	buf         *cellBuffer
	passes      passList
	lastPresent time.Time

	logger *zap.Logger
}

// SurfaceOption configures a TerminalSurface
type SurfaceOption func(*TerminalSurface)

// WithSeed fixes the décor seed so regenerating at the same size is stable
func WithSeed(seed int64) SurfaceOption {
	return func(s *TerminalSurface) { s.seed = seed }
}

// WithFade sets the sky cross-fade duration
func WithFade(d time.Duration) SurfaceOption {
	return func(s *TerminalSurface) {
		if d >= 0 {
			s.fade = d
		}
	}
}

// WithMetrics enables the debug metrics line source
func WithMetrics(r *status.Registry) SurfaceOption {
	return func(s *TerminalSurface) { s.metrics = r }
}

// WithSurfaceLogger sets the logger
func WithSurfaceLogger(l *zap.Logger) SurfaceOption {
	return func(s *TerminalSurface) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewTerminalSurface creates a surface on an initialized screen
func NewTerminalSurface(screen tcell.Screen, opts ...SurfaceOption) *TerminalSurface {
	s := &TerminalSurface{
		screen: screen,
		seed:   time.Now().UnixNano(),
		fade:   DefaultFade,
		logger: zap.NewNop(),
		buf:    newCellBuffer(0, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.passes.register("sky", PrioritySky, s.drawSky)
	s.passes.register("stars", PriorityStars, s.drawStars)
	s.passes.register("bodies", PriorityBodies, s.drawBodies)
	s.passes.register("clouds", PriorityClouds, s.drawClouds)
	s.passes.register("buildings", PriorityBuildings, s.drawBuildings)
	s.passes.register("street", PriorityStreet, s.drawStreet)
	s.passes.register("ground", PriorityGround, s.drawGround)
	s.passes.register("clock", PriorityClock, s.drawClock)
	s.passes.register("status", PriorityStatus, s.drawStatus)
	s.passes.register("debug", PriorityDebug, s.drawDebug)

	s.Resize()
	return s
}

// Resize regenerates décor for the current screen size
// Window identities are derived from the layout, so ids may change
func (s *TerminalSurface) Resize() {
	w, h := s.screen.Size()
	s.scene = scene.Generate(rand.New(rand.NewSource(s.seed)), w, h)
	s.buf.resize(w, h)

	prev := s.windows
	s.windows = make(map[string]*windowCell)
	s.ids = s.scene.WindowIDs()
	place := func(ws []scene.Window) {
		for _, win := range ws {
			wc := &windowCell{x: win.X, y: win.Y}
			if old, ok := prev[win.ID]; ok {
				wc.state = old.state
			}
			s.windows[win.ID] = wc
		}
	}
	for _, b := range s.scene.Buildings {
		place(b.Windows)
	}
	for _, hs := range s.scene.Houses {
		place(hs.Windows)
	}
	s.logger.Debug("scene generated",
		zap.Int("width", w), zap.Int("height", h),
		zap.Int("buildings", len(s.scene.Buildings)),
		zap.Int("houses", len(s.scene.Houses)),
		zap.Int("windows", len(s.ids)))
}

// Viewport implements Surface
func (s *TerminalSurface) Viewport() celestial.Viewport {
	w, h := s.screen.Size()
	return celestial.Viewport{Width: w, Height: groundRow(h)}
}

// SetSkyLayer implements Surface
func (s *TerminalSurface) SetSkyLayer(layer phase.Phase, active bool, z int) error {
	if int(layer) >= phase.Count {
		return fmt.Errorf("%w: sky layer %d", ErrMissingElement, layer)
	}
	s.layers[layer] = layerState{active: active, z: z}
	return nil
}

// SetBody implements Surface
func (s *TerminalSurface) SetBody(body celestial.Body, sample celestial.Sample) error {
	if int(body) >= len(s.bodies) {
		return fmt.Errorf("%w: body %d", ErrMissingElement, body)
	}
	s.bodies[body] = sample
	return nil
}

// WindowIDs implements Surface
func (s *TerminalSurface) WindowIDs() []string {
	return s.ids
}

// SetWindow implements Surface
func (s *TerminalSurface) SetWindow(id string, state lighting.State) error {
	wc, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%w: window %q", ErrMissingElement, id)
	}
	wc.state = state
	return nil
}

// SetClock implements Surface
func (s *TerminalSurface) SetClock(face clockface.Face) error {
	s.face = face
	return nil
}

// SetMode selects the clock display
func (s *TerminalSurface) SetMode(m clockface.Mode) {
	s.mode = m
}

// Mode returns the clock display mode
func (s *TerminalSurface) Mode() clockface.Mode {
	return s.mode
}

// SetStatus sets the bottom status line text
func (s *TerminalSurface) SetStatus(text string) {
	s.status = text
}

// ToggleDebug shows or hides the metrics line
func (s *TerminalSurface) ToggleDebug() bool {
	s.debug = !s.debug
	return s.debug
}

// Scene returns the current décor
func (s *TerminalSurface) Scene() *scene.Scene {
	return &s.scene
}

// Present implements Surface
func (s *TerminalSurface) Present(now time.Time) error {
	w, h := s.screen.Size()
	if w != s.scene.Width || h != s.scene.Height {
		s.Resize()
	}

	if !s.lastPresent.IsZero() {
		dt := now.Sub(s.lastPresent)
		if dt > maxDriftStep {
			dt = maxDriftStep
		}
		if dt > 0 {
			scene.Drift(s.scene.Clouds, dt, w)
		}
	}
	s.lastPresent = now

	f := &frame{
		buf:    s.buf,
		pal:    s.palette(now),
		width:  w,
		height: h,
		ground: groundRow(h),
	}
	s.buf.clear(f.pal.Ground)
	s.passes.run(f)
	s.buf.flush(s.screen)
	s.screen.Show()
	return nil
}

// front returns the active layer with the highest stacking order
func (s *TerminalSurface) front() (phase.Phase, bool) {
	best, found := phase.Night, false
	for _, p := range phase.All {
		l := s.layers[p]
		if !l.active {
			continue
		}
		if !found || l.z > s.layers[best].z {
			best, found = p, true
		}
	}
	return best, found
}

// palette returns the displayed palette, cross-fading after a layer change
func (s *TerminalSurface) palette(now time.Time) Palette {
	front, ok := s.front()
	if !ok {
		front = s.shown
	}
	if !s.started {
		s.shown, s.fadeFrom, s.started = front, front, true
	} else if front != s.shown {
		s.fadeFrom = s.shown
		s.shown = front
		s.fadeStart = now
	}

	if s.fadeFrom == s.shown || s.fade <= 0 {
		return PaletteFor(s.shown)
	}
	t := float64(now.Sub(s.fadeStart)) / float64(s.fade)
	if t >= 1 {
		s.fadeFrom = s.shown
		return PaletteFor(s.shown)
	}
	return PaletteFor(s.fadeFrom).Blend(PaletteFor(s.shown), t)
}

// groundRow is the ground line row; the row below it holds the status line
func groundRow(height int) int {
	g := height - 2
	if g < 0 {
		return 0
	}
	return g
}
