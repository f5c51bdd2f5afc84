package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/wordcount/internal/format"
	"github.com/agbru/wordcount/internal/orchestration"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	// Optimized to 200ms to reduce updates and improve performance.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressSuffix renders " 3/10 [bar] 30.00% ETA: 2s".
func progressSuffix(eta *format.CompletionETA, done, total int) string {
	progress, remaining := eta.Complete(done)
	return fmt.Sprintf(" %d/%d %s", done, total, format.FormatProgressBarWithETA(progress, remaining, ProgressBarWidth))
}

// DisplayProgress shows a spinner with a completion bar while documents are
// processed. In stream mode the spinner is replaced by one line per finished
// document, printed in completion order.
//
// It consumes updates until the channel is closed and calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.ProgressUpdate, total int, stream bool, out io.Writer) {
	defer wg.Done()
	if total <= 0 {
		for range updates {
		}
		return
	}

	if stream {
		for u := range updates {
			fmt.Fprintf(out, "[%*d/%d] %s\n", len(fmt.Sprint(u.Total)), u.Completed, u.Total, FormatOutcomeLine(u.Outcome))
		}
		return
	}

	eta := format.NewCompletionETA(total)
	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(progressSuffix(eta, 0, total))
	s.Start()
	defer s.Stop()

	done := 0
	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				s.UpdateSuffix(progressSuffix(eta, done, total))
				return
			}
			done = u.Completed
			s.UpdateSuffix(progressSuffix(eta, done, total))
		case <-ticker.C:
			// Keep the ETA moving between completions.
			s.UpdateSuffix(progressSuffix(eta, done, total))
		}
	}
}
