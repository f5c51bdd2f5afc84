// Package calibration measures which chunk threshold makes the parallel word
// counter fastest on the current machine and caches the answer in a profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/format"
	"github.com/agbru/wordcount/internal/parallel"
	"github.com/agbru/wordcount/internal/ui"
	"github.com/agbru/wordcount/internal/wordcount"
)

// defaultRounds is the number of timed runs per threshold; the fastest counts.
const defaultRounds = 3

// corpusSeed keeps the synthetic corpus identical between runs.
const corpusSeed = 20_000

type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Words     int
	Err       error
}

type options struct {
	corpusBytes int
	rounds      int
	thresholds  []int
}

// Option configures a calibration run.
type Option func(*options)

// WithCorpusBytes sets the synthetic corpus size.
func WithCorpusBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.corpusBytes = n
		}
	}
}

// WithRounds sets how many timed runs are made per threshold.
func WithRounds(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.rounds = n
		}
	}
}

// WithThresholds replaces the hardware-derived candidate thresholds.
func WithThresholds(thresholds ...int) Option {
	return func(o *options) {
		if len(thresholds) > 0 {
			o.thresholds = thresholds
		}
	}
}

// RunCalibration benchmarks the candidate chunk thresholds on a synthetic
// corpus, prints a summary table and saves the best threshold to
// profilePath. It returns a process exit code.
func RunCalibration(ctx context.Context, out io.Writer, profilePath string, opts ...Option) int {
	o := options{
		corpusBytes: DefaultCorpusBytes,
		rounds:      defaultRounds,
		thresholds:  GenerateChunkThresholds(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	fmt.Fprintf(out, "%s--- Calibration Mode ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Corpus: %s%s%s, %d thresholds, %d rounds each\n",
		ui.ColorPrimary(), format.FormatBytes(uint64(o.corpusBytes)), ui.ColorReset(), len(o.thresholds), o.rounds)

	start := time.Now()
	corpus := SyntheticCorpus(o.corpusBytes, corpusSeed)
	results, best, err := calibrate(ctx, corpus, o.thresholds, o.rounds, out)
	if err != nil {
		return apperrors.HandleRunError(apperrors.WrapError(err, "calibration"), out)
	}

	printCalibrationResults(out, results, best)

	profile := NewProfile()
	profile.OptimalChunkThreshold = best
	profile.CorpusBytes = len(corpus)
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	if profilePath != "" {
		if err := profile.SaveProfile(profilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorWarning(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "Profile saved to %s\n", profilePath)
		}
	}
	printCalibrationOutput(out, best)
	return apperrors.ExitSuccess
}

// calibrate times every threshold and returns the results in input order and
// the fastest threshold. Every run is checked against the sequential count;
// any mismatch fails the calibration.
func calibrate(ctx context.Context, corpus string, thresholds []int, rounds int, progress io.Writer) ([]calibrationResult, int, error) {
	expected := wordcount.CountSequential(corpus)
	results := make([]calibrationResult, 0, len(thresholds))
	var mismatches parallel.ErrorCollector

	for i, threshold := range thresholds {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		fmt.Fprintf(progress, "  [%d/%d] threshold %s\n", i+1, len(thresholds), thresholdLabel(threshold))

		counter := wordcount.New(wordcount.WithThreshold(threshold))
		res := calibrationResult{Threshold: threshold, Duration: -1}
		for r := 0; r < rounds; r++ {
			runStart := time.Now()
			words := counter.Count(corpus)
			elapsed := time.Since(runStart)
			if words != expected {
				res.Err = fmt.Errorf("threshold %d counted %d words, expected %d", threshold, words, expected)
				mismatches.SetError(res.Err)
				break
			}
			res.Words = words
			if res.Duration < 0 || elapsed < res.Duration {
				res.Duration = elapsed
			}
		}
		results = append(results, res)
	}

	if err := mismatches.Err(); err != nil {
		return results, 0, err
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.Duration < best.Duration {
			best = res
		}
	}
	return results, best.Threshold, nil
}

func thresholdLabel(threshold int) string {
	if threshold >= SequentialThreshold {
		return "Sequential"
	}
	return format.FormatBytes(uint64(threshold))
}
