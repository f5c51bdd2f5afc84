package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/wordcount/internal/source"
)

// Status tags the kind of an Outcome.
type Status int

const (
	// StatusSuccess means the document was fetched and counted in time.
	StatusSuccess Status = iota
	// StatusTimeout means the per-document deadline elapsed first.
	StatusTimeout
	// StatusFetchError means the document could not be retrieved.
	StatusFetchError
)

// String returns the metric/report label of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimeout:
		return "timeout"
	case StatusFetchError:
		return "fetch_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one document. Exactly one Outcome is
// produced per reference submitted to the Orchestrator.
type Outcome struct {
	// Ref is the processed document.
	Ref source.Ref
	// Status tags the outcome.
	Status Status
	// Count is the number of words. Only meaningful for StatusSuccess.
	Count int
	// Bytes is the size of the fetched content. Only meaningful for StatusSuccess.
	Bytes int
	// Duration is the time spent on the document.
	Duration time.Duration
	// Err is an apperrors.TimeoutError for timeouts and an
	// *apperrors.FetchError for fetch errors. It is nil on success.
	Err error
}

// ProgressUpdate reports one finished document. Updates arrive in
// completion order, not input order.
type ProgressUpdate struct {
	// Index is the position of the document in the submitted references.
	Index int
	// Completed is the number of documents finished so far, this one included.
	Completed int
	// Total is the number of submitted documents.
	Total int
	// Outcome is the finished document's outcome.
	Outcome Outcome
}

// ProgressReporter displays progress while documents are being processed.
//
// DisplayProgress is called in its own goroutine, must consume updates until
// the channel is closed and must call wg.Done before returning.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, total int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, updates <-chan ProgressUpdate, total int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, total int, out io.Writer) {
	f(wg, updates, total, out)
}

// NullProgressReporter drains the updates without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range updates {
	}
}

// ResultPresenter renders the final outcomes.
type ResultPresenter interface {
	// PresentOutcomes displays one entry per outcome, in the given order.
	PresentOutcomes(outcomes []Outcome, out io.Writer)
	// PresentSummary displays the aggregate counts.
	PresentSummary(summary Summary, out io.Writer)
}
