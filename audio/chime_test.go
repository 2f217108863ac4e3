package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/skyline/phase"
)

// drain streams s to exhaustion and returns the sample count and peak
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			v := buf[i][0]
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	n, peak := drain(NewOscillator(440, 100*time.Millisecond, WaveSine, rate))
	assert.Equal(t, 800, n)
	assert.LessOrEqual(t, peak, 1.0)
	assert.Greater(t, peak, 0.9)
}

func TestSquareValues(t *testing.T) {
	osc := NewOscillator(100, 10*time.Millisecond, WaveSquare, beep.SampleRate(8000))
	buf := make([][2]float64, 80)
	n, ok := osc.Stream(buf)
	require.True(t, ok)
	for i := 0; i < n; i++ {
		assert.Contains(t, []float64{-1, 1}, buf[i][0])
	}
}

func TestEnvelopeRamps(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(250, 100*time.Millisecond, WaveSquare, rate)
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	require.Equal(t, 100, n)

	assert.Equal(t, 0.0, buf[0][0])
	assert.InDelta(t, 1.0, abs(buf[50][0]), 1e-9)
	assert.Less(t, abs(buf[99][0]), 0.2)
}

func TestMelodyDirection(t *testing.T) {
	dawn := Melody(phase.Dawn)
	dusk := Melody(phase.Dusk)
	require.Len(t, dawn, 3)
	assert.Less(t, dawn[0], dawn[2])
	assert.Greater(t, dusk[0], dusk[2])
	assert.Len(t, Melody(phase.Night), 1)
}

func TestCueLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 8000
	n, _ := drain(Cue(phase.Dawn, cfg))
	assert.Equal(t, 3*beep.SampleRate(8000).N(noteLength), n)
}

func TestMutedCueIsSilent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 8000
	cfg.Volume = 0
	_, peak := drain(Cue(phase.Dusk, cfg))
	assert.Equal(t, 0.0, peak)
}

func TestOpenMuted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mute = true
	p := Open(cfg, nil)
	assert.IsType(t, Noop{}, p)
	p.Cue(phase.Night, phase.Dawn)
	p.Close()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
