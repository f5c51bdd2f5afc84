package sysmon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestMonitor_TracksPeak(t *testing.T) {
	t.Parallel()
	readings := []Stats{{10, 40}, {75, 35}, {20, 55}, {5, 30}}
	var calls atomic.Int64

	m := NewMonitor(time.Millisecond)
	m.sample = func() Stats {
		i := calls.Add(1) - 1
		return readings[min(int(i), len(readings)-1)]
	}
	m.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for calls.Load() < int64(len(readings)) {
		select {
		case <-deadline:
			t.Fatal("monitor did not sample")
		case <-time.After(time.Millisecond):
		}
	}

	got := m.Stop()
	if got.Peak.CPUPercent != 75 || got.Peak.MemPercent != 55 {
		t.Errorf("peak = %+v, want {75 55}", got.Peak)
	}
	// The priming sample is not recorded; the final one is.
	if got.Samples < len(readings)-1 {
		t.Errorf("Samples = %d, want at least %d", got.Samples, len(readings)-1)
	}
}

func TestMonitor_StopWithoutStart(t *testing.T) {
	t.Parallel()
	m := NewMonitor(0)
	if m.interval != DefaultInterval {
		t.Errorf("interval = %s, want %s", m.interval, DefaultInterval)
	}
	m.sample = func() Stats { return Stats{CPUPercent: 12, MemPercent: 34} }
	got := m.Stop()
	if got.Samples != 1 || got.Peak.CPUPercent != 12 || got.Peak.MemPercent != 34 {
		t.Errorf("summary = %+v", got)
	}
}

func TestMonitor_StopsWithContext(t *testing.T) {
	t.Parallel()
	m := NewMonitor(time.Millisecond)
	m.sample = func() Stats { return Stats{} }
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()

	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sampling goroutine did not exit on context cancellation")
	}
	m.Stop()
}
