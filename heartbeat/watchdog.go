package heartbeat

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrDisconnected is returned by Watch when the beat stream ends
var ErrDisconnected = errors.New("heartbeat stream closed")

// DefaultTimeout before a silent animation is reported stale
const DefaultTimeout = 3 * DefaultInterval

// Liveness of the watched animation
type Liveness int

const (
	Unknown Liveness = iota
	Alive
	Stale
)

func (l Liveness) String() string {
	switch l {
	case Alive:
		return "alive"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Transition is reported whenever liveness changes or the session restarts
type Transition struct {
	From, To  Liveness
	At        time.Time
	Last      Beat
	Restarted bool
}

// Watchdog tracks beats against a timeout
type Watchdog struct {
	clock   clockwork.Clock
	timeout time.Duration
	logger  *zap.Logger
}

// NewWatchdog creates a watchdog; non-positive timeout uses DefaultTimeout
func NewWatchdog(clock clockwork.Clock, timeout time.Duration, logger *zap.Logger) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watchdog{clock: clock, timeout: timeout, logger: logger}
}

// Watch consumes beats until ctx is done or the stream ends
// report runs on the calling goroutine
func (w *Watchdog) Watch(ctx context.Context, beats <-chan Beat, report func(Transition)) error {
	timer := w.clock.NewTimer(w.timeout)
	defer timer.Stop()

	state := Unknown
	var last Beat

	emit := func(to Liveness, restarted bool) {
		t := Transition{From: state, To: to, At: w.clock.Now(), Last: last, Restarted: restarted}
		state = to
		w.logger.Info("liveness",
			zap.Stringer("from", t.From),
			zap.Stringer("to", t.To),
			zap.Bool("restarted", restarted),
			zap.Uint64("seq", last.Seq))
		if report != nil {
			report(t)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case b, ok := <-beats:
			if !ok {
				// A closed stream means the animation exited or the link dropped
				if state != Stale {
					emit(Stale, false)
				}
				return ErrDisconnected
			}
			restarted := last.Session != "" && b.Session != last.Session
			last = b
			rearm(timer, w.timeout)
			if state != Alive || restarted {
				emit(Alive, restarted)
			}

		case <-timer.Chan():
			if state != Stale {
				emit(Stale, false)
			}
		}
	}
}

// rearm resets t, discarding an expiry that was not yet received
func rearm(t clockwork.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
	t.Reset(d)
}
