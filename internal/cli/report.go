package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/orchestration"
)

// Report is the file representation of a run.
type Report struct {
	GeneratedAt time.Time             `json:"generated_at" yaml:"generated_at"`
	Summary     orchestration.Summary `json:"summary" yaml:"summary"`
	Documents   []ReportEntry         `json:"documents" yaml:"documents"`
}

// ReportEntry is the file representation of one outcome.
type ReportEntry struct {
	Ref        string  `json:"ref" yaml:"ref"`
	Status     string  `json:"status" yaml:"status"`
	Words      int     `json:"words" yaml:"words"`
	Bytes      int     `json:"bytes" yaml:"bytes"`
	DurationMS float64 `json:"duration_ms" yaml:"duration_ms"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport builds a report from outcomes in their original order.
func NewReport(outcomes []orchestration.Outcome, summary orchestration.Summary) Report {
	r := Report{
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Documents:   make([]ReportEntry, len(outcomes)),
	}
	for i, o := range outcomes {
		e := ReportEntry{
			Ref:        string(o.Ref),
			Status:     o.Status.String(),
			DurationMS: float64(o.Duration) / float64(time.Millisecond),
		}
		if o.Status == orchestration.StatusSuccess {
			e.Words = o.Count
			e.Bytes = o.Bytes
		}
		if o.Err != nil {
			e.Error = o.Err.Error()
		}
		r.Documents[i] = e
	}
	return r
}

// WriteReport writes the run report to path, as YAML for .yaml and .yml
// files and as indented JSON otherwise. Parent directories are created.
func WriteReport(path string, outcomes []orchestration.Outcome, summary orchestration.Summary) error {
	if path == "" {
		return nil
	}
	report := NewReport(outcomes, summary)

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(report)
	default:
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return apperrors.WrapError(err, "encode report")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "failed to create directory")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.WrapError(err, "failed to write report")
	}
	return nil
}
