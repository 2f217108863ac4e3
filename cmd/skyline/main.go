// Command skyline animates a day/night cityscape in the terminal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/audio"
	"github.com/lixenwraith/skyline/config"
	"github.com/lixenwraith/skyline/core"
	"github.com/lixenwraith/skyline/heartbeat"
	"github.com/lixenwraith/skyline/playback"
	"github.com/lixenwraith/skyline/status"
)

var (
	debugFlag     = flag.Bool("debug", false, "Write a debug log to logs/skyline.log")
	startFlag     = flag.String("start", "", "Simulated start time as HH:MM or minute of day")
	cycleFlag     = flag.Duration("cycle", 0, "Real duration of one simulated day")
	heartbeatFlag = flag.String("heartbeat", "", "Heartbeat listen address, or \"off\"")
	muteFlag      = flag.Bool("mute", false, "Disable phase change chimes")
	seedFlag      = flag.Int64("seed", 0, "Scene and lighting seed, 0 for random")
)

// errBadStart is returned for an unparseable -start value
var errBadStart = errors.New("start must be HH:MM or a minute in [0,1440)")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "skyline: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	logger, logFile, err := setupLogging(cfg.Debug, cfg.LogLevel)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	screen.HideCursor()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := status.NewRegistry()
	clock := clockwork.NewRealClock()

	player := audio.Open(cfg.Audio, logger.Named("audio"))
	defer player.Close()

	hub := heartbeat.NewHub(registry, logger.Named("heartbeat"))
	if cfg.Heartbeat.Enabled {
		core.Go(func() {
			if err := heartbeat.Serve(ctx, cfg.Heartbeat.Addr, hub); err != nil {
				logger.Warn("heartbeat server stopped", zap.Error(err))
			}
		})
	}
	defer hub.Close()

	frames := playback.NewFrameScheduler(clock, cfg.Playback.FrameInterval)
	defer frames.Close()

	a := newApp(cfg, deps{
		screen:   screen,
		clock:    clock,
		sched:    frames,
		player:   player,
		sink:     hub,
		registry: registry,
		logger:   logger,
	})
	a.start()
	a.run(ctx, frames)

	logger.Info("skyline exiting", zap.String("metrics", registry.Line()))
	return nil
}

// applyFlags overrides loaded config with explicitly set flags
func applyFlags(cfg *config.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Debug = *debugFlag
		case "start":
			var m float64
			if m, err = parseStart(*startFlag); err == nil {
				cfg.StartMinute = m
			}
		case "cycle":
			cfg.Cycle = *cycleFlag
		case "heartbeat":
			if strings.EqualFold(*heartbeatFlag, "off") {
				cfg.Heartbeat.Enabled = false
			} else {
				cfg.Heartbeat.Enabled = true
				cfg.Heartbeat.Addr = *heartbeatFlag
			}
		case "mute":
			cfg.Audio.Mute = *muteFlag
		case "seed":
			cfg.Seed = *seedFlag
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// parseStart accepts "HH:MM" or a plain minute of day
func parseStart(s string) (float64, error) {
	if hh, mm, ok := strings.Cut(s, ":"); ok {
		h, err1 := strconv.Atoi(hh)
		m, err2 := strconv.Atoi(mm)
		if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			return 0, fmt.Errorf("%w: %q", errBadStart, s)
		}
		return float64(h*60 + m), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v >= 1440 {
		return 0, fmt.Errorf("%w: %q", errBadStart, s)
	}
	return v, nil
}
