package playback

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultFrameInterval approximates a 60Hz refresh
const DefaultFrameInterval = time.Second / 60

// Scheduler arms a single callback for the next frame
// Schedule replaces any pending callback; Cancel drops it
type Scheduler interface {
	Schedule(fn func(now time.Time))
	Cancel()
}

// Pending is a fired frame waiting to run on the owning goroutine
type Pending struct {
	gen uint64
	at  time.Time
	fn  func(now time.Time)
}

// FrameScheduler fires callbacks at a fixed interval and hands them to the
// owning goroutine through C, so all frame work stays on one goroutine
type FrameScheduler struct {
	clock    clockwork.Clock
	interval time.Duration

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64

	queue     chan Pending
	done      chan struct{}
	closeOnce sync.Once
}

// NewFrameScheduler creates a scheduler; nil clock uses the real clock
func NewFrameScheduler(clock clockwork.Clock, interval time.Duration) *FrameScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameScheduler{
		clock:    clock,
		interval: interval,
		queue:    make(chan Pending, 1),
		done:     make(chan struct{}),
	}
}

// C delivers fired frames; pass each to Dispatch
func (s *FrameScheduler) C() <-chan Pending {
	return s.queue
}

// Schedule arms fn for the next frame
func (s *FrameScheduler) Schedule(fn func(now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.interval, func() {
		s.mu.Lock()
		live := gen == s.gen
		s.mu.Unlock()
		if !live {
			return
		}
		select {
		case s.queue <- Pending{gen: gen, at: s.clock.Now(), fn: fn}:
		case <-s.done:
		}
	})
}

// Cancel drops the pending callback; a frame already queued becomes inert
func (s *FrameScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Dispatch runs a fired frame unless it was cancelled or superseded
func (s *FrameScheduler) Dispatch(p Pending) bool {
	s.mu.Lock()
	live := p.gen == s.gen
	s.mu.Unlock()
	if !live || p.fn == nil {
		return false
	}
	p.fn(p.at)
	return true
}

// Close cancels and releases any timer goroutine blocked on delivery
func (s *FrameScheduler) Close() {
	s.Cancel()
	s.closeOnce.Do(func() { close(s.done) })
}

// ManualScheduler holds the pending callback until Fire is called
type ManualScheduler struct {
	pending   func(now time.Time)
	scheduled int
	cancelled int
}

// NewManualScheduler creates a scheduler driven by the caller
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements Scheduler
func (m *ManualScheduler) Schedule(fn func(now time.Time)) {
	m.pending = fn
	m.scheduled++
}

// Cancel implements Scheduler
func (m *ManualScheduler) Cancel() {
	m.pending = nil
	m.cancelled++
}

// Fire runs the pending callback, returns false when nothing is armed
func (m *ManualScheduler) Fire(now time.Time) bool {
	fn := m.pending
	if fn == nil {
		return false
	}
	m.pending = nil
	fn(now)
	return true
}

// Pending reports whether a callback is armed
func (m *ManualScheduler) Pending() bool {
	return m.pending != nil
}

// Scheduled returns the total number of Schedule calls
func (m *ManualScheduler) Scheduled() int {
	return m.scheduled
}
