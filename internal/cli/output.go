// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayQuietOutcomes], [DisplayProgress], [DisplayMemoryStats].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietOutcome], [FormatOutcomeLine].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteReport].

package cli

import (
	"fmt"
	"io"

	"github.com/agbru/wordcount/internal/format"
	"github.com/agbru/wordcount/internal/metrics"
	"github.com/agbru/wordcount/internal/sysmon"
	"github.com/agbru/wordcount/internal/orchestration"
	"github.com/agbru/wordcount/internal/ui"
)

// FormatQuietOutcome formats an outcome as "<words>\t<status>\t<ref>".
// Words is "-" unless the document was counted.
func FormatQuietOutcome(o orchestration.Outcome) string {
	words := "-"
	if o.Status == orchestration.StatusSuccess {
		words = fmt.Sprint(o.Count)
	}
	return fmt.Sprintf("%s\t%s\t%s", words, o.Status, o.Ref)
}

// DisplayQuietOutcomes outputs one FormatQuietOutcome line per outcome.
func DisplayQuietOutcomes(out io.Writer, outcomes []orchestration.Outcome) {
	for _, o := range outcomes {
		fmt.Fprintln(out, FormatQuietOutcome(o))
	}
}

// FormatOutcomeLine formats an outcome as a single colorized line, as used
// in stream mode.
func FormatOutcomeLine(o orchestration.Outcome) string {
	duration := format.FormatExecutionDuration(o.Duration)
	switch o.Status {
	case orchestration.StatusSuccess:
		return fmt.Sprintf("%s✓%s %s%s%s words  %s  (%s)",
			ui.ColorSuccess(), ui.ColorReset(),
			ui.ColorWarning(), format.FormatCount(o.Count), ui.ColorReset(),
			o.Ref, duration)
	case orchestration.StatusTimeout:
		return fmt.Sprintf("%s⏱ timeout%s  %s  (%s)", ui.ColorWarning(), ui.ColorReset(), o.Ref, duration)
	default:
		return fmt.Sprintf("%s✗ fetch error%s  %s: %v", ui.ColorError(), ui.ColorReset(), o.Ref, o.Err)
	}
}

// DisplayMemoryStats shows memory statistics collected during the run.
func DisplayMemoryStats(usage metrics.MemoryUsage, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak sys:        %s\n", format.FormatBytes(usage.PeakSys))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(usage.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", usage.GCCycles)
	if usage.GCPause > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(usage.GCPause)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}

// DisplaySystemUsage prints the peak system-wide CPU and memory usage
// observed while the documents were processed.
func DisplaySystemUsage(usage sysmon.Summary, out io.Writer) {
	fmt.Fprintf(out, "\nSystem Usage (peak over %d samples):\n", usage.Samples)
	fmt.Fprintf(out, "  CPU:    %5.1f%%\n", usage.Peak.CPUPercent)
	fmt.Fprintf(out, "  Memory: %5.1f%%\n", usage.Peak.MemPercent)
}
