package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/skyline/phase"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 2*time.Minute, cfg.Cycle)
	assert.Equal(t, phase.DefaultBoundaries(), cfg.Phase)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SKYLINE_CYCLE", "30s")
	t.Setenv("SKYLINE_START_MINUTE", "720")
	t.Setenv("SKYLINE_PHASE__DAWN_START", "310")
	t.Setenv("SKYLINE_LIGHTING__PROBABILITY", "0.5")
	t.Setenv("SKYLINE_HEARTBEAT__ENABLED", "false")
	t.Setenv("SKYLINE_AUDIO__MUTE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Cycle)
	assert.Equal(t, 720.0, cfg.StartMinute)
	assert.Equal(t, 310.0, cfg.Phase.DawnStart)
	assert.Equal(t, 420.0, cfg.Phase.DawnEnd)
	assert.Equal(t, 0.5, cfg.Lighting.Probability)
	assert.False(t, cfg.Heartbeat.Enabled)
	assert.True(t, cfg.Audio.Mute)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("SKYLINE_PHASE__DAWN_END", "200")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, phase.ErrInvalidBoundaries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cycle", func(c *Config) { c.Cycle = 0 }},
		{"start past midnight", func(c *Config) { c.StartMinute = 1440 }},
		{"probability", func(c *Config) { c.Lighting.Probability = 1.5 }},
		{"moon span", func(c *Config) { c.Celestial.MoonSpan = 0 }},
		{"arc peak", func(c *Config) { c.Celestial.ArcPeak = 2 }},
		{"frame interval", func(c *Config) { c.Playback.FrameInterval = 0 }},
		{"latitude", func(c *Config) { c.Location.Enabled = true; c.Location.Latitude = 91 }},
		{"heartbeat addr", func(c *Config) { c.Heartbeat.Addr = "" }},
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	assert.NoError(t, Defaults().Validate())
}

func TestBoundariesFromLocation(t *testing.T) {
	cfg := Defaults()
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	b, err := cfg.Boundaries(date)
	require.NoError(t, err)
	assert.Equal(t, cfg.Phase, b)

	cfg.Location = LocationConfig{Enabled: true, Latitude: 51.5, Longitude: -0.13, Twilight: time.Hour}
	b, err = cfg.Boundaries(date)
	require.NoError(t, err)
	assert.NotEqual(t, cfg.Phase, b)
	assert.NoError(t, b.Validate())

	cfg.Location.Latitude = 80
	b, err = cfg.Boundaries(date)
	assert.ErrorIs(t, err, phase.ErrNoSunrise)
	assert.Equal(t, cfg.Phase, b)
}
