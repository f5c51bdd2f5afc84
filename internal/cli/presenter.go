package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/wordcount/internal/format"
	"github.com/agbru/wordcount/internal/orchestration"
	"github.com/agbru/wordcount/internal/ui"
)

// maxRefWidth caps the Document column; longer refs are shortened in the middle.
const maxRefWidth = 60

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
type CLIProgressReporter struct {
	// Stream prints each outcome as it completes instead of a spinner.
	Stream bool
}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner, or streamed outcome lines, while documents are processed.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.ProgressUpdate, total int, out io.Writer) {
	DisplayProgress(wg, updates, total, r.Stream, out)
}

// CLIResultPresenter renders outcomes as a lipgloss-styled table in input order.
type CLIResultPresenter struct{}

// QuietResultPresenter renders one tab-separated line per outcome for scripts.
type QuietResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ResultPresenter = QuietResultPresenter{}
)

// PresentOutcomes displays the outcome table with columns
// # | Document | Words | Duration | Status.
func (CLIResultPresenter) PresentOutcomes(outcomes []orchestration.Outcome, out io.Writer) {
	fmt.Fprintf(out, "\n--- Results ---\n")
	if len(outcomes) == 0 {
		fmt.Fprintln(out, "No documents to process.")
		return
	}

	styles := ui.CurrentTableStyles()
	headers := []string{"#", "Document", "Words", "Duration", "Status"}
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			shortenRef(string(o.Ref), maxRefWidth),
			wordsCell(o),
			durationCell(o),
			statusCell(o),
		}
	}

	widths := make([]int, len(headers))
	for c, h := range headers {
		widths[c] = lipgloss.Width(h)
		for _, row := range rows {
			widths[c] = max(widths[c], lipgloss.Width(row[c]))
		}
	}

	cells := make([]string, len(headers))
	for c, h := range headers {
		cells[c] = styles.Header.Width(widths[c]).Render(h)
	}
	fmt.Fprintln(out, strings.Join(cells, "   "))

	for i, row := range rows {
		cells[0] = styles.Index.Width(widths[0]).Render(row[0])
		cells[1] = styles.Ref.Width(widths[1]).Render(row[1])
		cells[2] = styles.Number.Width(widths[2]).Render(row[2])
		cells[3] = styles.Number.Width(widths[3]).Render(row[3])
		cells[4] = statusStyle(styles, outcomes[i].Status).Render(row[4])
		fmt.Fprintln(out, strings.Join(cells, "   "))
	}
}

// PresentSummary displays the aggregate counts on one line.
func (CLIResultPresenter) PresentSummary(summary orchestration.Summary, out io.Writer) {
	styles := ui.CurrentTableStyles()
	line := fmt.Sprintf("%d documents: %d succeeded, %d timed out, %d failed. %s words in %s.",
		summary.Total, summary.Succeeded, summary.TimedOut, summary.Failed,
		format.FormatCount(summary.Words), format.FormatBytes(uint64(summary.Bytes)))
	fmt.Fprintf(out, "\n%s\n", styles.Summary.Render(line))
}

// PresentOutcomes prints FormatQuietOutcome for every outcome.
func (QuietResultPresenter) PresentOutcomes(outcomes []orchestration.Outcome, out io.Writer) {
	DisplayQuietOutcomes(out, outcomes)
}

// PresentSummary prints nothing; quiet output is one line per document.
func (QuietResultPresenter) PresentSummary(orchestration.Summary, io.Writer) {}

func wordsCell(o orchestration.Outcome) string {
	if o.Status != orchestration.StatusSuccess {
		return "-"
	}
	return format.FormatCount(o.Count)
}

func durationCell(o orchestration.Outcome) string {
	if o.Duration == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(o.Duration)
}

func statusCell(o orchestration.Outcome) string {
	switch o.Status {
	case orchestration.StatusSuccess:
		return "✅ Success"
	case orchestration.StatusTimeout:
		return "⏱ Timeout"
	default:
		if o.Err != nil {
			return fmt.Sprintf("❌ Fetch error (%v)", o.Err)
		}
		return "❌ Fetch error"
	}
}

func statusStyle(styles ui.TableStyles, status orchestration.Status) lipgloss.Style {
	switch status {
	case orchestration.StatusSuccess:
		return styles.Success
	case orchestration.StatusTimeout:
		return styles.Timeout
	default:
		return styles.Failure
	}
}

// shortenRef keeps both ends of long refs, which carry the host and the page.
func shortenRef(ref string, limit int) string {
	runes := []rune(ref)
	if len(runes) <= limit || limit < 5 {
		return ref
	}
	head := (limit - 1) / 2
	tail := limit - 1 - head
	return string(runes[:head]) + "…" + string(runes[len(runes)-tail:])
}
