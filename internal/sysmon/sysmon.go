// Package sysmon provides system-wide CPU and memory usage sampling.
package sysmon

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultInterval is the sampling period of a Monitor.
const DefaultInterval = 250 * time.Millisecond

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Summary is the result of a monitoring session.
type Summary struct {
	Peak    Stats
	Samples int
}

// Monitor samples system usage in the background while a run is in
// progress and keeps the peak of each reading.
type Monitor struct {
	interval time.Duration
	sample   func() Stats

	mu      sync.Mutex
	summary Summary

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a monitor sampling every interval. Non-positive
// intervals select DefaultInterval.
func NewMonitor(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{interval: interval, sample: Sample}
}

// Start begins sampling until Stop is called or ctx is done.
// It must be called at most once.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	// Prime the CPU delta so the first tick reports a real percentage.
	m.sample()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.record(m.sample())
			}
		}
	}()
}

// Stop ends sampling, takes a final reading and returns the summary.
func (m *Monitor) Stop() Summary {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
	m.record(m.sample())

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

func (m *Monitor) record(s Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary.Samples++
	m.summary.Peak.CPUPercent = max(m.summary.Peak.CPUPercent, s.CPUPercent)
	m.summary.Peak.MemPercent = max(m.summary.Peak.MemPercent, s.MemPercent)
}
