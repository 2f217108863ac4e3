package playback

import "time"

// Ledger tracks accumulated pause time for the simulated clock
// Accumulated only grows, by non-negative deltas, when a pause ends
type Ledger struct {
	accumulated time.Duration
	pausedAt    time.Time // zero while running
	paused      bool
}

// Begin marks the start of a pause; no-op if already paused
func (l *Ledger) Begin(now time.Time) {
	if l.paused {
		return
	}
	l.paused = true
	l.pausedAt = now
}

// End closes the current pause and folds its duration into the total
func (l *Ledger) End(now time.Time) {
	if !l.paused {
		return
	}
	if d := now.Sub(l.pausedAt); d > 0 {
		l.accumulated += d
	}
	l.paused = false
	l.pausedAt = time.Time{}
}

// Total returns paused time up to now, including an open pause
// While paused the result grows in lockstep with now, freezing the simulated clock
func (l *Ledger) Total(now time.Time) time.Duration {
	total := l.accumulated
	if l.paused {
		if d := now.Sub(l.pausedAt); d > 0 {
			total += d
		}
	}
	return total
}

// Accumulated returns the closed pause total, excluding an open pause
func (l *Ledger) Accumulated() time.Duration {
	return l.accumulated
}

// PausedAt returns when the current pause began
func (l *Ledger) PausedAt() (time.Time, bool) {
	return l.pausedAt, l.paused
}

// IsPaused reports whether a pause is open
func (l *Ledger) IsPaused() bool {
	return l.paused
}
