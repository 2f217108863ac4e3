package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/audio"
	"github.com/lixenwraith/skyline/clockface"
	"github.com/lixenwraith/skyline/config"
	"github.com/lixenwraith/skyline/heartbeat"
	"github.com/lixenwraith/skyline/phase"
	"github.com/lixenwraith/skyline/playback"
	"github.com/lixenwraith/skyline/status"
)

type cueRecorder struct {
	cues []phase.Phase
}

func (c *cueRecorder) Cue(_, to phase.Phase) { c.cues = append(c.cues, to) }
func (c *cueRecorder) Close()                {}

type testApp struct {
	*app
	fake   *clockwork.FakeClock
	sched  *playback.ManualScheduler
	screen tcell.SimulationScreen
	cues   *cueRecorder
	beats  []heartbeat.Beat
	reg    *status.Registry
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *testApp {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 30)
	t.Cleanup(screen.Fini)

	cfg := config.Defaults()
	cfg.Seed = 7
	cfg.Cycle = 1440 * time.Second // one simulated minute per second
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	ta := &testApp{
		fake:   clockwork.NewFakeClockAt(time.Unix(1_000_000, 0)),
		sched:  playback.NewManualScheduler(),
		screen: screen,
		cues:   &cueRecorder{},
		reg:    status.NewRegistry(),
	}
	ta.app = newApp(cfg, deps{
		screen:   screen,
		clock:    ta.fake,
		sched:    ta.sched,
		player:   ta.cues,
		sink:     heartbeat.SinkFunc(func(b heartbeat.Beat) { ta.beats = append(ta.beats, b) }),
		registry: ta.reg,
		logger:   zap.NewNop(),
	})
	return ta
}

func key(r rune) tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestStartPlays(t *testing.T) {
	a := newTestApp(t, nil)
	a.start()

	assert.Equal(t, playback.Playing, a.ctrl.State())
	assert.True(t, a.sched.Pending())
	p, ok := a.engine.Phase()
	require.True(t, ok)
	assert.Equal(t, phase.Night, p)
}

func TestSpaceTogglesPlayback(t *testing.T) {
	a := newTestApp(t, nil)
	a.start()

	assert.False(t, a.handleEvent(key(' ')))
	assert.Equal(t, playback.Stopped, a.ctrl.State())
	assert.False(t, a.sched.Pending())

	a.handleEvent(key(' '))
	assert.Equal(t, playback.Playing, a.ctrl.State())
}

func TestQuitKeys(t *testing.T) {
	a := newTestApp(t, nil)
	assert.True(t, a.handleEvent(key('q')))
	assert.True(t, a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, a.handleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
	assert.False(t, a.handleEvent(key('x')))
}

func TestClockModeCycles(t *testing.T) {
	a := newTestApp(t, nil)
	require.Equal(t, clockface.ModeDigital, a.surface.Mode())

	a.handleEvent(key('c'))
	assert.Equal(t, clockface.ModeAnalog, a.surface.Mode())
	a.handleEvent(key('c'))
	assert.Equal(t, clockface.ModeHidden, a.surface.Mode())
	a.handleEvent(key('c'))
	assert.Equal(t, clockface.ModeDigital, a.surface.Mode())
}

func TestHeartbeatToggle(t *testing.T) {
	a := newTestApp(t, nil)
	require.True(t, a.beacon.Running())

	a.handleEvent(key('h'))
	assert.False(t, a.beacon.Running())
	assert.Nil(t, a.beacon.C())

	a.handleEvent(key('h'))
	assert.True(t, a.beacon.Running())
}

func TestHeartbeatDisabledByConfig(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Heartbeat.Enabled = false })
	assert.False(t, a.beacon.Running())

	a.handleEvent(key('h'))
	assert.False(t, a.beacon.Running())
	assert.Nil(t, a.beacon.C())

	cells, w, h := a.screen.GetContents()
	var row []rune
	for x := 0; x < w; x++ {
		if c := cells[(h-1)*w+x]; len(c.Runes) > 0 {
			row = append(row, c.Runes[0])
		}
	}
	assert.Contains(t, string(row), "heartbeat:off")
}

func TestPhaseChangeCues(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.StartMinute = 299 })
	a.start()
	require.Empty(t, a.cues.cues)

	// Two simulated minutes later dawn has begun
	a.fake.Advance(2 * time.Second)
	require.True(t, a.sched.Fire(a.fake.Now()))
	assert.Equal(t, []phase.Phase{phase.Dawn}, a.cues.cues)
}

func TestResizeRegenerates(t *testing.T) {
	a := newTestApp(t, nil)
	a.start()

	a.screen.SetSize(150, 40)
	a.handleEvent(tcell.NewEventResize(150, 40))
	assert.Equal(t, 150, a.surface.Viewport().Width)
	assert.Equal(t, 150, a.surface.Scene().Width)
}

func TestStatusReflectsState(t *testing.T) {
	a := newTestApp(t, nil)
	a.start()
	a.handleEvent(key(' '))

	cells, w, h := a.screen.GetContents()
	var row []rune
	for x := 0; x < w; x++ {
		c := cells[(h-1)*w+x]
		if len(c.Runes) > 0 {
			row = append(row, c.Runes[0])
		}
	}
	assert.Contains(t, string(row), "stopped")
	assert.Contains(t, string(row), "heartbeat:127.0.0.1:7788")
}

func TestParseStart(t *testing.T) {
	m, err := parseStart("06:30")
	require.NoError(t, err)
	assert.Equal(t, 390.0, m)

	m, err = parseStart("1000.5")
	require.NoError(t, err)
	assert.Equal(t, 1000.5, m)

	for _, bad := range []string{"24:00", "6:75", "-1", "1440", "noon"} {
		_, err := parseStart(bad)
		assert.ErrorIs(t, err, errBadStart, bad)
	}
}

var _ audio.Player = (*cueRecorder)(nil)
