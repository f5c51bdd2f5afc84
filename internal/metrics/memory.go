package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	Sys          uint64 // total bytes obtained from OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryUsage summarizes allocation activity between two snapshots.
type MemoryUsage struct {
	Allocated uint64
	PeakSys   uint64
	GCCycles  uint32
	GCPause   time.Duration
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Since reports the activity between before and s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryUsage {
	u := MemoryUsage{PeakSys: max(s.Sys, before.Sys)}
	if s.TotalAlloc > before.TotalAlloc {
		u.Allocated = s.TotalAlloc - before.TotalAlloc
	}
	if s.NumGC > before.NumGC {
		u.GCCycles = s.NumGC - before.NumGC
	}
	if s.PauseTotalNs > before.PauseTotalNs {
		u.GCPause = time.Duration(s.PauseTotalNs - before.PauseTotalNs)
	}
	return u
}
