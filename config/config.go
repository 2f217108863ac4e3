// Package config loads runtime settings: compiled defaults overlaid by
// SKYLINE_ environment variables, then command-line flags
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/lixenwraith/skyline/audio"
	"github.com/lixenwraith/skyline/celestial"
	"github.com/lixenwraith/skyline/cycle"
	"github.com/lixenwraith/skyline/heartbeat"
	"github.com/lixenwraith/skyline/lighting"
	"github.com/lixenwraith/skyline/phase"
	"github.com/lixenwraith/skyline/playback"
	"github.com/lixenwraith/skyline/render"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// EnvPrefix is stripped from variable names; "__" separates nesting levels
const EnvPrefix = "SKYLINE_"

type Config struct {
	LogLevel string `koanf:"log_level"`
	Debug    bool   `koanf:"debug"`

	// Real duration of one simulated day
	Cycle       time.Duration `koanf:"cycle"`
	StartMinute float64       `koanf:"start_minute"`
	// Zero seeds from the wall clock
	Seed int64 `koanf:"seed"`

	Phase     phase.Boundaries `koanf:"phase"`
	Location  LocationConfig   `koanf:"location"`
	Lighting  LightingConfig   `koanf:"lighting"`
	Celestial CelestialConfig  `koanf:"celestial"`
	Playback  PlaybackConfig   `koanf:"playback"`
	Heartbeat HeartbeatConfig  `koanf:"heartbeat"`
	Audio     audio.Config     `koanf:"audio"`
}

// LocationConfig derives phase boundaries from local sunrise when enabled
type LocationConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Latitude  float64       `koanf:"latitude"`
	Longitude float64       `koanf:"longitude"`
	Twilight  time.Duration `koanf:"twilight"`
}

type LightingConfig struct {
	Probability float64 `koanf:"probability"`
}

type CelestialConfig struct {
	MoonSpan float64 `koanf:"moon_span"`
	ArcPeak  float64 `koanf:"arc_peak"`
}

type PlaybackConfig struct {
	FrameInterval time.Duration `koanf:"frame_interval"`
	Throttle      time.Duration `koanf:"throttle"`
	Fade          time.Duration `koanf:"fade"`
}

type HeartbeatConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Interval time.Duration `koanf:"interval"`
}

// Defaults returns the compiled configuration
func Defaults() *Config {
	return &Config{
		LogLevel:    "info",
		Cycle:       cycle.DefaultCycle,
		StartMinute: 0,
		Phase:       phase.DefaultBoundaries(),
		Location: LocationConfig{
			Twilight: phase.DefaultTwilight,
		},
		Lighting: LightingConfig{
			Probability: lighting.DefaultProbability,
		},
		Celestial: CelestialConfig{
			MoonSpan: celestial.DefaultMoonSpan,
			ArcPeak:  celestial.DefaultArcPeak,
		},
		Playback: PlaybackConfig{
			FrameInterval: playback.DefaultFrameInterval,
			Throttle:      playback.DefaultThrottle,
			Fade:          render.DefaultFade,
		},
		Heartbeat: HeartbeatConfig{
			Enabled:  true,
			Addr:     "127.0.0.1:7788",
			Interval: heartbeat.DefaultInterval,
		},
		Audio: audio.DefaultConfig(),
	}
}

// Load overlays the environment on the defaults and validates the result
func Load() (*Config, error) {
	k := koanf.New(".")
	cfg := Defaults()

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps SKYLINE_PHASE__DAWN_START to phase.dawn_start
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks ranges; called again by callers after flag overrides
func (c *Config) Validate() error {
	if c.Cycle <= 0 {
		return fmt.Errorf("%w: cycle must be positive, got %s", ErrInvalid, c.Cycle)
	}
	if c.StartMinute < 0 || c.StartMinute >= cycle.MinutesPerDay {
		return fmt.Errorf("%w: start_minute %v outside [0,%d)", ErrInvalid, c.StartMinute, cycle.MinutesPerDay)
	}
	if err := c.Phase.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if p := c.Lighting.Probability; p < 0 || p > 1 {
		return fmt.Errorf("%w: lighting.probability %v outside [0,1]", ErrInvalid, p)
	}
	if c.Celestial.MoonSpan <= 0 {
		return fmt.Errorf("%w: celestial.moon_span must be positive", ErrInvalid)
	}
	if c.Celestial.ArcPeak <= 0 || c.Celestial.ArcPeak > 1 {
		return fmt.Errorf("%w: celestial.arc_peak %v outside (0,1]", ErrInvalid, c.Celestial.ArcPeak)
	}
	if c.Playback.FrameInterval <= 0 || c.Playback.Throttle < 0 || c.Playback.Fade < 0 {
		return fmt.Errorf("%w: playback durations", ErrInvalid)
	}
	if c.Location.Enabled {
		if c.Location.Latitude < -90 || c.Location.Latitude > 90 || c.Location.Longitude < -180 || c.Location.Longitude > 180 {
			return fmt.Errorf("%w: location %v,%v", ErrInvalid, c.Location.Latitude, c.Location.Longitude)
		}
	}
	if c.Heartbeat.Enabled && c.Heartbeat.Addr == "" {
		return fmt.Errorf("%w: heartbeat.addr required when enabled", ErrInvalid)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalid)
	}
	return nil
}

// Boundaries returns the configured phase thresholds, derived from the
// location for date when enabled
// On a location error the static boundaries are returned with the error
func (c *Config) Boundaries(date time.Time) (phase.Boundaries, error) {
	if !c.Location.Enabled {
		return c.Phase, nil
	}
	b, err := phase.FromLocation(c.Location.Latitude, c.Location.Longitude, date, date.Location(), c.Location.Twilight)
	if err != nil {
		return c.Phase, fmt.Errorf("location boundaries: %w", err)
	}
	return b, nil
}
