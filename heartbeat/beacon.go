// Package heartbeat lets an external watchdog tell a running animation from a
// frozen or exited one. The beacon is ticked from the animation goroutine, so
// a stalled frame loop stops beating
package heartbeat

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/skyline/status"
)

// DefaultInterval between beats
const DefaultInterval = time.Second

// Beat is one liveness ping
type Beat struct {
	Session string    `json:"session"`
	Seq     uint64    `json:"seq"`
	At      time.Time `json:"at"`
	Minute  float64   `json:"minute"`
	Playing bool      `json:"playing"`
}

// Sink receives beats
type Sink interface {
	Publish(b Beat)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Beat)

func (f SinkFunc) Publish(b Beat) { f(b) }

// Beacon emits beats on a ticker owned by the caller's select loop
// Not safe for concurrent use
type Beacon struct {
	clock    clockwork.Clock
	interval time.Duration
	session  string
	seq      uint64
	ticker   clockwork.Ticker
	sink     Sink

	statSent    *atomic.Int64
	statRunning *atomic.Bool
}

// NewBeacon creates a stopped beacon with a fresh session id
func NewBeacon(clock clockwork.Clock, interval time.Duration, sink Sink, reg *status.Registry) *Beacon {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Beacon{
		clock:       clock,
		interval:    interval,
		session:     uuid.NewString(),
		sink:        sink,
		statSent:    reg.Ints.Get(status.HeartbeatsSent),
		statRunning: reg.Bools.Get(status.HeartbeatRunning),
	}
}

// Session returns the id shared by every beat of this process
func (b *Beacon) Session() string { return b.session }

// Running reports whether the ticker is armed
func (b *Beacon) Running() bool { return b.ticker != nil }

// Start arms the ticker, no-op when already running
func (b *Beacon) Start() {
	if b.ticker != nil {
		return
	}
	b.ticker = b.clock.NewTicker(b.interval)
	b.statRunning.Store(true)
}

// Stop disarms the ticker
func (b *Beacon) Stop() {
	if b.ticker == nil {
		return
	}
	b.ticker.Stop()
	b.ticker = nil
	b.statRunning.Store(false)
}

// Toggle flips Start/Stop and returns the new running state
func (b *Beacon) Toggle() bool {
	if b.Running() {
		b.Stop()
	} else {
		b.Start()
	}
	return b.Running()
}

// C returns the tick channel, nil while stopped so a select case never fires
func (b *Beacon) C() <-chan time.Time {
	if b.ticker == nil {
		return nil
	}
	return b.ticker.Chan()
}

// Beat publishes the next beat and returns it
func (b *Beacon) Beat(now time.Time, minute float64, playing bool) Beat {
	b.seq++
	beat := Beat{
		Session: b.session,
		Seq:     b.seq,
		At:      now,
		Minute:  minute,
		Playing: playing,
	}
	if b.sink != nil {
		b.sink.Publish(beat)
	}
	b.statSent.Add(1)
	return beat
}
