package orchestration

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/source"
	"github.com/agbru/wordcount/internal/source/mocks"
)

// TestRunAll_TimeoutThenSuccess checks that a stalled first document is
// reported as a timeout while the second one succeeds, in input order.
func TestRunAll_TimeoutThenSuccess(t *testing.T) {
	t.Parallel()
	src := &routedSource{
		Memory:  source.NewMemory(source.Document{Ref: "ref2", Content: "hello brave new world"}),
		stalled: map[source.Ref]bool{"ref1": true},
		stall:   newStallingFetcher(t),
	}

	outcomes, err := NewOrchestrator(src).RunAll(context.Background(), source.Refs("ref1", "ref2"), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Ref != "ref1" || outcomes[0].Status != StatusTimeout {
		t.Errorf("outcomes[0] = %+v, want Timeout{ref1}", outcomes[0])
	}
	if outcomes[1].Ref != "ref2" || outcomes[1].Status != StatusSuccess || outcomes[1].Count != 4 {
		t.Errorf("outcomes[1] = %+v, want Success{ref2, 4}", outcomes[1])
	}
}

// TestRunAll_PreservesInputOrder makes later refs finish first.
func TestRunAll_PreservesInputOrder(t *testing.T) {
	t.Parallel()
	const n = 12
	mem := source.NewMemory()
	refs := make([]source.Ref, n)
	for i := 0; i < n; i++ {
		refs[i] = source.Ref("doc-" + strconv.Itoa(i))
		mem.Add(source.Document{
			Ref:     refs[i],
			Content: "w " + strconv.Itoa(i),
			Delay:   time.Duration(n-i) * 5 * time.Millisecond,
		})
	}

	reporter := &recordingReporter{}
	outcomes, err := NewOrchestrator(mem, WithProgress(reporter, io.Discard)).RunAll(context.Background(), refs, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, o := range outcomes {
		if o.Ref != refs[i] {
			t.Errorf("outcomes[%d].Ref = %q, want %q", i, o.Ref, refs[i])
		}
		if o.Status != StatusSuccess || o.Count != 2 {
			t.Errorf("outcomes[%d] = %+v, want Success with 2 words", i, o)
		}
	}

	if reporter.total != n {
		t.Errorf("reporter total = %d, want %d", reporter.total, n)
	}
	if len(reporter.updates) != n {
		t.Fatalf("expected %d progress updates, got %d", n, len(reporter.updates))
	}
	seen := make(map[int]bool)
	for i, u := range reporter.updates {
		if u.Completed != i+1 {
			t.Errorf("update %d: Completed = %d, want %d", i, u.Completed, i+1)
		}
		if u.Outcome.Ref != refs[u.Index] {
			t.Errorf("update %d: Index %d does not match ref %q", i, u.Index, u.Outcome.Ref)
		}
		seen[u.Index] = true
	}
	if len(seen) != n {
		t.Errorf("expected one update per document, got %d distinct", len(seen))
	}
}

// TestRunAll_Isolation checks that failures do not alter sibling outcomes.
func TestRunAll_Isolation(t *testing.T) {
	t.Parallel()
	mem := source.NewMemory(
		source.Document{Ref: "a", Content: "one two"},
		source.Document{Ref: "b", Err: errors.New("reset")},
		source.Document{Ref: "c", Content: "x", Delay: time.Hour},
		source.Document{Ref: "d", Content: "three four five"},
	)
	refs := source.Refs("a", "b", "c", "d")

	alone := make(map[source.Ref]Outcome)
	for _, ref := range []source.Ref{"a", "d"} {
		outcomes, err := NewOrchestrator(mem).RunAll(context.Background(), []source.Ref{ref}, 50*time.Millisecond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		alone[ref] = outcomes[0]
	}

	outcomes, err := NewOrchestrator(mem).RunAll(context.Background(), refs, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Status{StatusSuccess, StatusFetchError, StatusTimeout, StatusSuccess}
	for i, o := range outcomes {
		if o.Status != want[i] {
			t.Errorf("outcomes[%d].Status = %v, want %v", i, o.Status, want[i])
		}
	}
	for _, idx := range []int{0, 3} {
		if outcomes[idx].Count != alone[refs[idx]].Count {
			t.Errorf("%q: count %d in a mixed run, %d alone", refs[idx], outcomes[idx].Count, alone[refs[idx]].Count)
		}
	}
}

func TestRunAll_BlankRefSpawnsNothing(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	// No expectations: nothing may be fetched.

	outcomes, err := NewOrchestrator(src).RunAll(context.Background(), source.Refs("https://a.example", " "), time.Second)
	var argErr apperrors.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
	if argErr.Field != "refs[1]" {
		t.Errorf("Field = %q, want %q", argErr.Field, "refs[1]")
	}
	if outcomes != nil {
		t.Errorf("expected no outcomes, got %v", outcomes)
	}
}

func TestRunAll_Empty(t *testing.T) {
	t.Parallel()
	outcomes, err := NewOrchestrator(source.NewMemory()).RunAll(context.Background(), nil, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %v", outcomes)
	}
}

func TestRunAll_ParentCanceled(t *testing.T) {
	t.Parallel()
	mem := source.NewMemory(
		source.Document{Ref: "a", Content: "x", Delay: time.Hour},
		source.Document{Ref: "b", Content: "y", Delay: time.Hour},
	)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	outcomes, err := NewOrchestrator(mem).RunAll(ctx, source.Refs("a", "b"), time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected outcomes for every ref, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Status != StatusTimeout {
			t.Errorf("outcomes[%d].Status = %v, want %v", i, o.Status, StatusTimeout)
		}
	}
}

func TestRun_ListsThenProcesses(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)

	src.EXPECT().ListTopDocuments(gomock.Any(), 2).Return(source.Refs("u1", "u2"), nil)
	src.EXPECT().Fetch(gomock.Any(), source.Ref("u1")).Return("a b c", nil)
	src.EXPECT().Fetch(gomock.Any(), source.Ref("u2")).Return("", errors.New("503"))

	outcomes, err := NewOrchestrator(src).Run(context.Background(), 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcomes[0].Status != StatusSuccess || outcomes[0].Count != 3 {
		t.Errorf("outcomes[0] = %+v", outcomes[0])
	}
	if outcomes[1].Status != StatusFetchError {
		t.Errorf("outcomes[1] = %+v", outcomes[1])
	}
}

func TestRun_ListingFailureIsFatal(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	decodeErr := &apperrors.DecodeError{What: "topstories", Cause: errors.New("unexpected EOF")}
	src.EXPECT().ListTopDocuments(gomock.Any(), 10).Return(nil, decodeErr)

	outcomes, err := NewOrchestrator(src).Run(context.Background(), 10, time.Second)
	var got *apperrors.DecodeError
	if !errors.As(err, &got) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if outcomes != nil {
		t.Errorf("expected no outcomes, got %v", outcomes)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	outcomes := []Outcome{
		{Status: StatusSuccess, Count: 10, Bytes: 60, Duration: 3 * time.Millisecond},
		{Status: StatusSuccess, Count: 5, Bytes: 20, Duration: time.Millisecond},
		{Status: StatusTimeout, Duration: 9 * time.Millisecond},
		{Status: StatusFetchError, Duration: 2 * time.Millisecond},
	}
	got := Summarize(outcomes)
	want := Summary{Total: 4, Succeeded: 2, TimedOut: 1, Failed: 1, Words: 15, Bytes: 80, Slowest: 9 * time.Millisecond}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestAnalyzeOutcomes(t *testing.T) {
	t.Parallel()
	success := Outcome{Ref: "s", Status: StatusSuccess, Count: 3}
	timeout := Outcome{Ref: "t", Status: StatusTimeout}
	failure := Outcome{Ref: "f", Status: StatusFetchError}

	tests := []struct {
		name     string
		outcomes []Outcome
		wantCode int
	}{
		{"empty run", nil, apperrors.ExitSuccess},
		{"all success", []Outcome{success, success}, apperrors.ExitSuccess},
		{"partial success", []Outcome{timeout, success, failure}, apperrors.ExitSuccess},
		{"all timeouts", []Outcome{timeout, timeout}, apperrors.ExitErrorTimeout},
		{"all fetch errors", []Outcome{failure}, apperrors.ExitErrorGeneric},
		{"timeouts and fetch errors", []Outcome{timeout, failure}, apperrors.ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &stubPresenter{}
			if code := AnalyzeOutcomes(tt.outcomes, presenter, io.Discard); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if len(presenter.outcomes) != len(tt.outcomes) {
				t.Errorf("presented %d outcomes, want %d", len(presenter.outcomes), len(tt.outcomes))
			}
			if presenter.summary.Total != len(tt.outcomes) {
				t.Errorf("summary Total = %d, want %d", presenter.summary.Total, len(tt.outcomes))
			}
		})
	}
}
