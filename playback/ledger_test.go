package playback

import (
	"testing"
	"time"
)

func TestLedger(t *testing.T) {
	var l Ledger

	if l.IsPaused() {
		t.Fatal("Expected zero ledger to be running")
	}
	if got := l.Total(t0); got != 0 {
		t.Errorf("Expected zero total, got %v", got)
	}

	l.Begin(t0)
	l.Begin(t0.Add(time.Minute)) // ignored
	if got := l.Total(t0.Add(2 * time.Minute)); got != 2*time.Minute {
		t.Errorf("Expected open pause to count, got %v", got)
	}
	if got := l.Accumulated(); got != 0 {
		t.Errorf("Expected open pause excluded from accumulated, got %v", got)
	}

	l.End(t0.Add(3 * time.Minute))
	if got := l.Accumulated(); got != 3*time.Minute {
		t.Errorf("Expected 3m accumulated, got %v", got)
	}
	if _, ok := l.PausedAt(); ok {
		t.Error("Expected no open pause after End")
	}

	// End without Begin is a no-op
	l.End(t0.Add(time.Hour))
	if got := l.Total(t0.Add(time.Hour)); got != 3*time.Minute {
		t.Errorf("Expected total unchanged, got %v", got)
	}
}

func TestLedgerIgnoresBackwardsTime(t *testing.T) {
	var l Ledger
	l.Begin(t0)
	if got := l.Total(t0.Add(-time.Second)); got != 0 {
		t.Errorf("Expected negative delta ignored, got %v", got)
	}
	l.End(t0.Add(-time.Second))
	if got := l.Accumulated(); got != 0 {
		t.Errorf("Expected negative delta ignored, got %v", got)
	}
}
