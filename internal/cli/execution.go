package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/wordcount/internal/calibration"
	"github.com/agbru/wordcount/internal/config"
	"github.com/agbru/wordcount/internal/format"
	"github.com/agbru/wordcount/internal/ui"
	"github.com/agbru/wordcount/internal/wordcount"
)

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the document source, the timeout, environment details and the
// counter settings.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Processing %s%s%s with a per-document timeout of %s%s%s.\n",
		ui.ColorPrimary(), describeSource(cfg), ui.ColorReset(), ui.ColorWarning(), describeTimeout(cfg), ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorSecondary(), runtime.NumCPU(), ui.ColorReset(), ui.ColorSecondary(), runtime.Version(), ui.ColorReset())

	parallelism := cfg.MaxParallelism
	if parallelism <= 0 {
		parallelism = wordcount.DefaultMaxParallelism()
	}
	threshold := format.FormatBytes(uint64(cfg.ChunkThreshold))
	if cfg.ChunkThreshold >= calibration.SequentialThreshold {
		threshold = "sequential"
	}
	fmt.Fprintf(out, "Counter: chunk threshold=%s%s%s, max goroutines=%s%d%s.\n",
		ui.ColorSecondary(), threshold, ui.ColorReset(), ui.ColorSecondary(), parallelism, ui.ColorReset())
	if cfg.RateLimit > 0 {
		fmt.Fprintf(out, "Rate limit: %g requests/s (burst %d).\n", cfg.RateLimit, cfg.Burst)
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

func describeSource(cfg config.AppConfig) string {
	switch {
	case len(cfg.URLs) > 0:
		return fmt.Sprintf("up to %d of %d given URLs", cfg.MaxDocuments, len(cfg.URLs))
	case cfg.URLsFile != "":
		return fmt.Sprintf("up to %d URLs from %s", cfg.MaxDocuments, cfg.URLsFile)
	default:
		return fmt.Sprintf("the top %d stories of %s", cfg.MaxDocuments, cfg.APIBase)
	}
}

func describeTimeout(cfg config.AppConfig) string {
	if cfg.Timeout <= 0 {
		return "none"
	}
	return cfg.Timeout.String()
}
