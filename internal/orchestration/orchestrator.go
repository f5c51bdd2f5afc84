package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/logging"
	"github.com/agbru/wordcount/internal/source"
)

// Orchestrator runs one Worker per document and collects their outcomes.
type Orchestrator struct {
	source source.Source
	worker *Worker
	settings
	tracer trace.Tracer
}

// NewOrchestrator creates an orchestrator that lists and fetches documents
// through src.
func NewOrchestrator(src source.Source, opts ...Option) *Orchestrator {
	s := newSettings(opts)
	return &Orchestrator{
		source:   src,
		worker:   newWorker(src, s),
		settings: s,
		tracer:   otel.Tracer(tracerName),
	}
}

// Run lists up to max documents from the source and processes them with
// RunAll. Listing failures are returned as is and abort the run.
func (o *Orchestrator) Run(ctx context.Context, max int, timeout time.Duration) ([]Outcome, error) {
	refs, err := o.source.ListTopDocuments(ctx, max)
	if err != nil {
		return nil, apperrors.WrapError(err, "list documents")
	}
	o.logger.Info("documents listed", logging.Int("count", len(refs)))
	return o.RunAll(ctx, refs, timeout)
}

// RunAll processes every ref concurrently, one Worker each, and returns
// after all of them have finished. The outcomes are in the same order as
// refs. A failing document never affects its siblings.
//
// Every ref is validated before any work starts: a blank ref yields an
// apperrors.ArgumentError and no outcomes. If ctx is canceled during the run
// the outcomes are still returned, together with the context error.
func (o *Orchestrator) RunAll(ctx context.Context, refs []source.Ref, timeout time.Duration) ([]Outcome, error) {
	for i, ref := range refs {
		if ref.IsBlank() {
			return nil, apperrors.ArgumentError{
				Field:   fmt.Sprintf("refs[%d]", i),
				Message: "document reference must not be blank",
			}
		}
	}

	ctx, span := o.tracer.Start(ctx, "wordcount.run_all",
		trace.WithAttributes(
			attribute.Int("documents", len(refs)),
			attribute.String("timeout", timeout.String()),
		))
	defer span.End()

	outcomes := make([]Outcome, len(refs))
	updates := make(chan ProgressUpdate, len(refs))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go o.progress.DisplayProgress(&displayWg, updates, len(refs), o.out)

	// No shared context: one document failing must not cancel the others.
	var (
		g         errgroup.Group
		mu        sync.Mutex
		completed int
	)
	for i, ref := range refs {
		g.Go(func() error {
			outcome, err := o.worker.Process(ctx, ref, timeout)
			if err != nil {
				return err
			}
			outcomes[i] = outcome

			mu.Lock()
			completed++
			updates <- ProgressUpdate{Index: i, Completed: completed, Total: len(refs), Outcome: outcome}
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	close(updates)
	displayWg.Wait()
	if err != nil {
		return nil, err
	}

	summary := Summarize(outcomes)
	span.SetAttributes(
		attribute.Int("documents.succeeded", summary.Succeeded),
		attribute.Int("documents.timed_out", summary.TimedOut),
		attribute.Int("documents.failed", summary.Failed),
	)
	o.logger.Info("run finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("timed_out", summary.TimedOut),
		logging.Int("failed", summary.Failed),
		logging.Int("words", summary.Words))

	if err := ctx.Err(); err != nil {
		return outcomes, apperrors.WrapError(err, "run interrupted")
	}
	return outcomes, nil
}

// Summary aggregates a run's outcomes.
type Summary struct {
	Total     int           `json:"total" yaml:"total"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	TimedOut  int           `json:"timed_out" yaml:"timed_out"`
	Failed    int           `json:"failed" yaml:"failed"`
	Words     int           `json:"words" yaml:"words"`
	Bytes     int           `json:"bytes" yaml:"bytes"`
	Slowest   time.Duration `json:"slowest_ns" yaml:"slowest"`
}

// Summarize counts outcomes by status and totals the words of the
// successful ones.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			s.Succeeded++
			s.Words += o.Count
			s.Bytes += o.Bytes
		case StatusTimeout:
			s.TimedOut++
		case StatusFetchError:
			s.Failed++
		}
		s.Slowest = max(s.Slowest, o.Duration)
	}
	return s
}

// AnalyzeOutcomes presents the outcomes and their summary and returns the
// run's exit code: success when at least one document was counted (or
// nothing was requested), a timeout code when every document timed out,
// and a generic failure otherwise.
func AnalyzeOutcomes(outcomes []Outcome, presenter ResultPresenter, out io.Writer) int {
	presenter.PresentOutcomes(outcomes, out)
	summary := Summarize(outcomes)
	presenter.PresentSummary(summary, out)

	switch {
	case summary.Total == 0 || summary.Succeeded > 0:
		return apperrors.ExitSuccess
	case summary.Failed == 0:
		return apperrors.ExitErrorTimeout
	default:
		return apperrors.ExitErrorGeneric
	}
}
