package calibration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/wordcount"
)

func TestGenerateChunkThresholds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numCPU  int
		wantLen int
	}{
		{1, 1},
		{2, 6},
		{4, 6},
		{8, 7},
		{64, 7},
	}
	for _, tt := range tests {
		got := generateChunkThresholds(tt.numCPU)
		if len(got) != tt.wantLen {
			t.Errorf("generateChunkThresholds(%d) returned %d thresholds, want %d", tt.numCPU, len(got), tt.wantLen)
		}
		if got[0] != SequentialThreshold {
			t.Errorf("generateChunkThresholds(%d)[0] = %d, want the sequential candidate", tt.numCPU, got[0])
		}
		for _, th := range got {
			if th <= 0 {
				t.Errorf("generateChunkThresholds(%d) contains non-positive threshold %d", tt.numCPU, th)
			}
		}
	}
	if len(GenerateChunkThresholds()) == 0 {
		t.Error("GenerateChunkThresholds returned no candidates")
	}
}

func TestSyntheticCorpus(t *testing.T) {
	t.Parallel()
	a := SyntheticCorpus(64<<10, 7)
	b := SyntheticCorpus(64<<10, 7)
	if a != b {
		t.Fatal("corpus should be deterministic for a given seed")
	}
	if len(a) < 64<<10 {
		t.Errorf("corpus has %d bytes, want at least %d", len(a), 64<<10)
	}
	if !utf8.ValidString(a) {
		t.Error("corpus must be valid UTF-8")
	}
	if got, want := wordcount.CountSequential(a), len(strings.Fields(a)); got != want {
		t.Errorf("CountSequential = %d, strings.Fields = %d", got, want)
	}
	if SyntheticCorpus(0, 1) != "" {
		t.Error("zero size should produce an empty corpus")
	}
}

func TestCalibratePicksAThresholdAndVerifiesCounts(t *testing.T) {
	t.Parallel()
	corpus := SyntheticCorpus(256<<10, 3)
	thresholds := []int{SequentialThreshold, 4 << 10, 32 << 10}

	results, best, err := calibrate(context.Background(), corpus, thresholds, 2, io.Discard)
	if err != nil {
		t.Fatalf("calibrate failed: %v", err)
	}
	if len(results) != len(thresholds) {
		t.Fatalf("got %d results, want %d", len(results), len(thresholds))
	}
	want := wordcount.CountSequential(corpus)
	found := false
	for i, res := range results {
		if res.Threshold != thresholds[i] {
			t.Errorf("results[%d].Threshold = %d, want %d", i, res.Threshold, thresholds[i])
		}
		if res.Words != want {
			t.Errorf("threshold %d counted %d words, want %d", res.Threshold, res.Words, want)
		}
		if res.Err != nil {
			t.Errorf("threshold %d failed: %v", res.Threshold, res.Err)
		}
		if res.Threshold == best {
			found = true
		}
	}
	if !found {
		t.Errorf("best threshold %d is not one of the candidates", best)
	}
}

func TestCalibrateCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := calibrate(ctx, "a b c", []int{1, 2}, 1, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunCalibrationSavesProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "profile.json")
	var out bytes.Buffer

	code := RunCalibration(context.Background(), &out, path,
		WithCorpusBytes(32<<10), WithRounds(1), WithThresholds(SequentialThreshold, 1<<10))
	if code != apperrors.ExitSuccess {
		t.Fatalf("RunCalibration returned %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"Calibration Summary", "Sequential", "(Optimal)", "Profile saved"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	profile, loaded := LoadOrCreateProfile(path)
	if !loaded {
		t.Fatal("profile was not written")
	}
	if profile.OptimalChunkThreshold != SequentialThreshold && profile.OptimalChunkThreshold != 1<<10 {
		t.Errorf("unexpected optimal threshold %d", profile.OptimalChunkThreshold)
	}
	if profile.CorpusBytes < 32<<10 {
		t.Errorf("CorpusBytes = %d, want at least %d", profile.CorpusBytes, 32<<10)
	}
	if !profile.IsValid() {
		t.Error("saved profile should be valid on this machine")
	}
}

func TestRunCalibrationCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	code := RunCalibration(ctx, &out, "", WithCorpusBytes(1024), WithRounds(1))
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("expected exit code %d, got %d", apperrors.ExitErrorCanceled, code)
	}
}
