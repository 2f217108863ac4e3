// Command skyline-watchdog subscribes to a running skyline's heartbeat and
// logs when the animation freezes, exits or restarts
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/heartbeat"
)

var (
	addrFlag    = flag.String("addr", "127.0.0.1:7788", "Heartbeat address of the skyline process")
	timeoutFlag = flag.Duration("timeout", heartbeat.DefaultTimeout, "Silence before the animation is reported stale")
	retryFlag   = flag.Duration("retry", 2*time.Second, "Delay between reconnect attempts")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skyline-watchdog: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := "ws://" + *addrFlag + heartbeat.Path
	w := &watcher{
		clock:    clockwork.NewRealClock(),
		url:      url,
		timeout:  *timeoutFlag,
		retry:    *retryFlag,
		dial:     heartbeat.Dial,
		logger:   logger,
		onChange: logTransition(logger),
	}
	w.run(ctx)
}

// watcher keeps a watchdog attached to the beat stream across reconnects
type watcher struct {
	clock    clockwork.Clock
	url      string
	timeout  time.Duration
	retry    time.Duration
	dial     func(ctx context.Context, url string) (<-chan heartbeat.Beat, error)
	logger   *zap.Logger
	onChange func(heartbeat.Transition)
}

func (w *watcher) run(ctx context.Context) {
	dog := heartbeat.NewWatchdog(w.clock, w.timeout, w.logger.Named("watchdog"))
	for {
		beats, err := w.dial(ctx, w.url)
		if err != nil {
			w.logger.Warn("heartbeat unreachable", zap.String("url", w.url), zap.Error(err))
		} else {
			w.logger.Info("connected", zap.String("url", w.url))
			err = dog.Watch(ctx, beats, w.onChange)
			if errors.Is(err, heartbeat.ErrDisconnected) {
				// Watch has already reported the stale transition
				w.logger.Warn("heartbeat connection lost")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-w.clock.After(w.retry):
		}
	}
}

func logTransition(logger *zap.Logger) func(heartbeat.Transition) {
	return func(t heartbeat.Transition) {
		fields := []zap.Field{
			zap.Stringer("from", t.From),
			zap.Stringer("to", t.To),
			zap.String("session", t.Last.Session),
			zap.Uint64("seq", t.Last.Seq),
			zap.Float64("minute", t.Last.Minute),
		}
		switch {
		case t.Restarted:
			logger.Warn("animation restarted", fields...)
		case t.To == heartbeat.Stale:
			logger.Error("animation stale", fields...)
		default:
			logger.Info("animation alive", fields...)
		}
	}
}
