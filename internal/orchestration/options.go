package orchestration

import (
	"io"

	"github.com/agbru/wordcount/internal/logging"
	"github.com/agbru/wordcount/internal/metrics"
	"github.com/agbru/wordcount/internal/wordcount"
)

type settings struct {
	counter  *wordcount.Counter
	logger   logging.Logger
	metrics  *metrics.Recorder
	progress ProgressReporter
	out      io.Writer
}

func newSettings(opts []Option) settings {
	s := settings{
		counter:  wordcount.New(),
		logger:   logging.NewNopLogger(),
		progress: NullProgressReporter{},
		out:      io.Discard,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a Worker or an Orchestrator.
type Option func(*settings)

// WithCounter sets the word counter used on fetched content.
func WithCounter(c *wordcount.Counter) Option {
	return func(s *settings) {
		if c != nil {
			s.counter = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records per-document metrics on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *settings) { s.metrics = r }
}

// WithProgress displays progress with reporter, writing to out.
// It only affects the Orchestrator.
func WithProgress(reporter ProgressReporter, out io.Writer) Option {
	return func(s *settings) {
		if reporter != nil {
			s.progress = reporter
		}
		if out != nil {
			s.out = out
		}
	}
}
