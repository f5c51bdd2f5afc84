package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates produced from very few samples.
const maxETA = 24 * time.Hour

// CompletionETA estimates the remaining time of a batch of equally weighted
// tasks from the average time per completed task. It is not safe for
// concurrent use.
type CompletionETA struct {
	total     int
	completed int
	start     time.Time
	now       func() time.Time
}

// NewCompletionETA starts tracking a batch of total tasks.
func NewCompletionETA(total int) *CompletionETA {
	return &CompletionETA{total: total, start: time.Now(), now: time.Now}
}

// Complete records that done tasks have finished and returns the completed
// fraction and the remaining time estimate.
func (e *CompletionETA) Complete(done int) (float64, time.Duration) {
	e.completed = min(max(done, 0), e.total)
	return e.Fraction(), e.ETA()
}

// Fraction returns the completed share of the batch, in [0, 1].
func (e *CompletionETA) Fraction() float64 {
	if e.total <= 0 {
		return 1
	}
	return float64(e.completed) / float64(e.total)
}

// ETA returns the remaining time estimate, or 0 when nothing has finished
// yet or everything has.
func (e *CompletionETA) ETA() time.Duration {
	if e.completed == 0 || e.completed >= e.total {
		return 0
	}
	perTask := e.now().Sub(e.start) / time.Duration(e.completed)
	return min(perTask*time.Duration(e.total-e.completed), maxETA)
}

// FormatETA renders an estimate for display.
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders a bar of length cells for a progress in [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] pct% ETA: eta".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
