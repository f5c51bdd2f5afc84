package orchestration

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/logging"
	"github.com/agbru/wordcount/internal/source"
)

const tracerName = "github.com/agbru/wordcount/internal/orchestration"

// Worker fetches and counts a single document under a deadline.
type Worker struct {
	fetcher source.Fetcher
	settings
	tracer trace.Tracer
}

// NewWorker creates a worker that fetches through fetcher.
func NewWorker(fetcher source.Fetcher, opts ...Option) *Worker {
	return newWorker(fetcher, newSettings(opts))
}

func newWorker(fetcher source.Fetcher, s settings) *Worker {
	return &Worker{fetcher: fetcher, settings: s, tracer: otel.Tracer(tracerName)}
}

type fetchResult struct {
	content string
	err     error
}

// Process fetches ref and counts its words. A timeout of zero or less means
// no deadline.
//
// The deadline is observed cooperatively: a fetch still running when it
// elapses is abandoned, and the deadline is checked again after the fetch
// returns, before counting and after counting. Counting itself is never
// interrupted, so a count finishing late is reported as a timeout.
//
// Fetch failures and timeouts are reported in the Outcome. The only error
// returned is an apperrors.ArgumentError for a blank ref.
func (w *Worker) Process(ctx context.Context, ref source.Ref, timeout time.Duration) (Outcome, error) {
	if ref.IsBlank() {
		return Outcome{}, apperrors.ArgumentError{Field: "ref", Message: "document reference must not be blank"}
	}

	ctx, span := w.tracer.Start(ctx, "wordcount.process",
		trace.WithAttributes(attribute.String("document.ref", ref.String())))
	defer span.End()

	w.metrics.WorkerStarted()
	defer w.metrics.WorkerFinished()

	start := time.Now()
	fetchCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	token := NewCancelToken()
	stop := context.AfterFunc(fetchCtx, func() { token.Cancel() })
	defer stop()

	outcome := w.run(fetchCtx, token, ref, timeout)
	outcome.Duration = time.Since(start)

	w.record(span, outcome)
	return outcome, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (w *Worker) run(ctx context.Context, token *CancelToken, ref source.Ref, timeout time.Duration) Outcome {
	// The context may expire before the AfterFunc callback sets the token.
	expired := func() bool {
		if ctx.Err() != nil {
			token.Cancel()
		}
		return token.Canceled()
	}

	results := make(chan fetchResult, 1)
	go func() {
		content, err := w.fetcher.Fetch(ctx, ref)
		results <- fetchResult{content: content, err: err}
	}()

	var res fetchResult
	select {
	case res = <-results:
	case <-token.Done():
		w.logger.Debug("fetch abandoned at deadline", logging.String("ref", ref.String()))
		return timedOut(ref, timeout)
	}

	if expired() {
		return timedOut(ref, timeout)
	}
	if res.err != nil {
		return fetchFailed(ref, res.err)
	}

	if expired() {
		return timedOut(ref, timeout)
	}
	count := w.counter.Count(res.content)
	if expired() {
		w.logger.Debug("count finished after deadline",
			logging.String("ref", ref.String()), logging.Int("words", count))
		return timedOut(ref, timeout)
	}

	return Outcome{Ref: ref, Status: StatusSuccess, Count: count, Bytes: len(res.content)}
}

func timedOut(ref source.Ref, timeout time.Duration) Outcome {
	return Outcome{
		Ref:    ref,
		Status: StatusTimeout,
		Err:    apperrors.TimeoutError{Operation: ref.String(), Limit: timeout},
	}
}

func fetchFailed(ref source.Ref, err error) Outcome {
	var fetchErr *apperrors.FetchError
	if !errors.As(err, &fetchErr) {
		err = apperrors.NewFetchError(ref.String(), err)
	}
	return Outcome{Ref: ref, Status: StatusFetchError, Err: err}
}

func (w *Worker) record(span trace.Span, o Outcome) {
	span.SetAttributes(
		attribute.String("document.status", o.Status.String()),
		attribute.Int("document.words", o.Count),
		attribute.Int("document.bytes", o.Bytes),
	)
	w.metrics.ObserveDocument(o.Status.String(), o.Count, o.Bytes, o.Duration)

	switch o.Status {
	case StatusSuccess:
		w.logger.Debug("document counted",
			logging.String("ref", o.Ref.String()),
			logging.Int("words", o.Count),
			logging.Duration("elapsed", o.Duration))
	case StatusTimeout:
		span.SetStatus(codes.Error, "timeout")
		w.logger.Warn("document timed out",
			logging.String("ref", o.Ref.String()),
			logging.Duration("elapsed", o.Duration))
	case StatusFetchError:
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, "fetch error")
		w.logger.Warn("document fetch failed",
			logging.String("ref", o.Ref.String()),
			logging.Err(o.Err))
	}
}
