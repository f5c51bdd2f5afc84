package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/agbru/wordcount/internal/config"
	apperrors "github.com/agbru/wordcount/internal/errors"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout or the
	// meaning of its thresholds changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile file name in the home directory.
	DefaultProfileFileName = config.DefaultCalibrationProfile

	// MaxProfileAge is how long a cached profile is trusted.
	MaxProfileAge = 30 * 24 * time.Hour
)

// CalibrationProfile is the persisted result of a calibration run together
// with the hardware it was measured on.
type CalibrationProfile struct {
	OptimalChunkThreshold int       `json:"optimal_chunk_threshold"`
	CorpusBytes           int       `json:"corpus_bytes"`
	CalibrationTime       string    `json:"calibration_time"`
	NumCPU                int       `json:"num_cpu"`
	GOARCH                string    `json:"goarch"`
	GOOS                  string    `json:"goos"`
	GoVersion             string    `json:"go_version"`
	WordSize              int       `json:"word_size"`
	ProfileVersion        int       `json:"profile_version"`
	CalibratedAt          time.Time `json:"calibrated_at"`
}

// NewProfile creates a profile describing the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
	}
}

// IsValid reports whether the profile was produced on hardware matching the
// current machine by a compatible version of the program.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	current := NewProfile()
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == current.NumCPU &&
		p.GOARCH == current.GOARCH &&
		p.WordSize == current.WordSize &&
		p.OptimalChunkThreshold > 0
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable description of the profile.
func (p *CalibrationProfile) String() string {
	var sb strings.Builder
	threshold := fmt.Sprintf("%d bytes", p.OptimalChunkThreshold)
	if p.OptimalChunkThreshold >= SequentialThreshold {
		threshold = "sequential"
	}
	fmt.Fprintf(&sb, "Calibration profile (v%d)\n", p.ProfileVersion)
	fmt.Fprintf(&sb, "  Chunk threshold: %s\n", threshold)
	fmt.Fprintf(&sb, "  Hardware:        %d CPUs, %s/%s, %d-bit\n", p.NumCPU, p.GOOS, p.GOARCH, p.WordSize)
	fmt.Fprintf(&sb, "  Go version:      %s\n", p.GoVersion)
	fmt.Fprintf(&sb, "  Calibrated at:   %s", p.CalibratedAt.Format(time.RFC3339))
	return sb.String()
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return apperrors.WrapError(err, "encode calibration profile")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "create profile directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.WrapError(err, "write calibration profile %s", path)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "read calibration profile %s", path)
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &apperrors.DecodeError{What: "calibration profile " + path, Cause: err}
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one
// when it is missing or unreadable. The boolean reports whether it was loaded.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns the profile path in the user's home
// directory, or in the working directory when the home is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// LoadCachedCalibration applies a valid, fresh profile from path to cfg.
// An explicitly configured chunk threshold always wins. The boolean reports
// whether the profile was applied.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.ChunkThreshold != 0 || path == "" {
		return cfg, false
	}
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.IsStale(MaxProfileAge) {
		return cfg, false
	}
	cfg.ChunkThreshold = p.OptimalChunkThreshold
	return cfg, true
}
