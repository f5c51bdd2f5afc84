package orchestration

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/agbru/wordcount/internal/source"
)

// stallingFetcher ignores its context and blocks until the test ends.
type stallingFetcher struct {
	release chan struct{}
}

func newStallingFetcher(t *testing.T) *stallingFetcher {
	t.Helper()
	f := &stallingFetcher{release: make(chan struct{})}
	t.Cleanup(func() { close(f.release) })
	return f
}

func (f *stallingFetcher) Fetch(_ context.Context, _ source.Ref) (string, error) {
	<-f.release
	return "too late", nil
}

// routedSource serves some refs from a stalling fetcher and the rest from memory.
type routedSource struct {
	*source.Memory
	stalled map[source.Ref]bool
	stall   *stallingFetcher
}

func (s *routedSource) Fetch(ctx context.Context, ref source.Ref) (string, error) {
	if s.stalled[ref] {
		return s.stall.Fetch(ctx, ref)
	}
	return s.Memory.Fetch(ctx, ref)
}

// recordingReporter keeps every update it receives.
type recordingReporter struct {
	mu      sync.Mutex
	updates []ProgressUpdate
	total   int
}

func (r *recordingReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, total int, _ io.Writer) {
	defer wg.Done()
	r.mu.Lock()
	r.total = total
	r.mu.Unlock()
	for u := range updates {
		r.mu.Lock()
		r.updates = append(r.updates, u)
		r.mu.Unlock()
	}
}

// stubPresenter records what it was asked to present.
type stubPresenter struct {
	outcomes []Outcome
	summary  Summary
}

func (p *stubPresenter) PresentOutcomes(outcomes []Outcome, _ io.Writer) { p.outcomes = outcomes }
func (p *stubPresenter) PresentSummary(summary Summary, _ io.Writer)     { p.summary = summary }
