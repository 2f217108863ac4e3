// Package audio plays a short chime when the sky changes phase
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/phase"
)

const (
	noteLength  = 220 * time.Millisecond
	noteAttack  = 10 * time.Millisecond
	noteRelease = 150 * time.Millisecond
)

// Config controls audio output
type Config struct {
	Mute       bool    `koanf:"mute"`
	Volume     float64 `koanf:"volume"`
	SampleRate int     `koanf:"sample_rate"`
}

// DefaultConfig returns audible settings at 48kHz
func DefaultConfig() Config {
	return Config{Volume: 0.4, SampleRate: 48000}
}

// Player reacts to phase changes
type Player interface {
	Cue(from, to phase.Phase)
	Close()
}

// Melody returns the note frequencies played on entering a phase
// Dawn rises, dusk falls, day and night are a single tone
func Melody(to phase.Phase) []float64 {
	switch to {
	case phase.Dawn:
		return []float64{523.25, 659.25, 783.99}
	case phase.Day:
		return []float64{1046.5}
	case phase.Dusk:
		return []float64{783.99, 659.25, 523.25}
	default:
		return []float64{261.63}
	}
}

// Cue builds the streamer for a transition into to
func Cue(to phase.Phase, cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	wave := WaveSine
	if to == phase.Night {
		wave = WaveTriangle
	}

	notes := Melody(to)
	seq := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		osc := NewOscillator(f, noteLength, wave, rate)
		seq = append(seq, NewEnvelope(osc, noteLength, noteAttack, noteRelease, rate))
	}
	return newVolume(beep.Seq(seq...), cfg.Volume)
}

// Chime plays cues through the system speaker
type Chime struct {
	mu     sync.Mutex
	cfg    Config
	mixer  *beep.Mixer
	closed bool
	logger *zap.Logger
}

// NewChime initialises the speaker; it may only be called once per process
func NewChime(cfg Config, logger *zap.Logger) (*Chime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	c := &Chime{cfg: cfg, mixer: &beep.Mixer{}, logger: logger}
	speaker.Play(c.mixer)
	return c, nil
}

// Cue queues the transition chime without blocking the caller
func (c *Chime) Cue(from, to phase.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	speaker.Lock()
	c.mixer.Add(Cue(to, c.cfg))
	speaker.Unlock()
	c.logger.Debug("chime", zap.Stringer("from", from), zap.Stringer("to", to))
}

// Close silences pending cues and releases the device
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	speaker.Clear()
	speaker.Close()
}

// Noop discards cues
type Noop struct{}

func (Noop) Cue(phase.Phase, phase.Phase) {}
func (Noop) Close()                       {}

// Open returns a speaker-backed player, or Noop when muted or the device
// cannot be opened
func Open(cfg Config, logger *zap.Logger) Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mute {
		return Noop{}
	}
	c, err := NewChime(cfg, logger)
	if err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return Noop{}
	}
	return c
}
