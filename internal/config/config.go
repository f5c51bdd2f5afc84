// Package config defines the application configuration and its sources:
// command-line flags, WORDCOUNT_* environment variables, a cached
// calibration profile and hardware-based estimates, in that priority order.
package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/source"
	"github.com/agbru/wordcount/internal/wordcount"
)

const (
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "WORDCOUNT_"

	// DefaultMaxDocuments is the default number of documents processed.
	DefaultMaxDocuments = 10
	// DefaultTimeout is the default per-document deadline.
	DefaultTimeout = 5 * time.Second
	// DefaultLogLevel is the default zerolog level.
	DefaultLogLevel = "warn"
	// DefaultCalibrationProfile is the profile path, relative to the home directory.
	DefaultCalibrationProfile = ".wordcount_calibration.json"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// MaxDocuments caps how many documents are listed and processed.
	MaxDocuments int
	// Timeout is the per-document deadline. Zero disables it.
	Timeout time.Duration
	// ChunkThreshold is the size in bytes below which a range is counted
	// sequentially. Zero selects an adaptive value.
	ChunkThreshold int
	// MaxParallelism caps the counter's live goroutines. Zero selects the default.
	MaxParallelism int

	// APIBase is the root of the Hacker News API.
	APIBase string
	// URLs, when set, replace the listing API with a fixed document list.
	URLs []string
	// URLsFile is a file with one document URL per line.
	URLsFile string
	// TextOnly counts the visible text of HTML pages instead of the raw body.
	TextOnly bool
	// RateLimit is the maximum number of requests per second. Zero disables it.
	RateLimit float64
	// Burst is the rate limiter burst size.
	Burst int
	// UserAgent is sent with every request.
	UserAgent string

	// Stream prints outcomes as they complete.
	Stream bool
	// OutputFile, when set, receives a JSON or YAML report.
	OutputFile string
	// Quiet prints one tab-separated line per document and nothing else.
	Quiet bool
	// Verbose prints the execution configuration and memory statistics.
	Verbose bool
	// NoColor disables colored output.
	NoColor bool
	// LogLevel is the zerolog level name.
	LogLevel string
	// MetricsAddr, when set, serves Prometheus metrics during the run.
	MetricsAddr string

	// Calibrate benchmarks chunk thresholds instead of fetching documents.
	Calibrate bool
	// CalibrationProfile is the path of the calibration profile.
	CalibrationProfile string
	// Completion, when set, prints a shell completion script for that shell.
	Completion string
}

// ToCounterOptions converts the configuration into word counter options.
func (c AppConfig) ToCounterOptions() []wordcount.Option {
	return []wordcount.Option{
		wordcount.WithThreshold(c.ChunkThreshold),
		wordcount.WithMaxParallelism(c.MaxParallelism),
	}
}

// ToRateLimitConfig converts the configuration into a fetch rate limit.
func (c AppConfig) ToRateLimitConfig() source.RateLimitConfig {
	return source.RateLimitConfig{RequestsPerSecond: c.RateLimit, BurstSize: c.Burst}
}

// HasExplicitRefs reports whether documents come from --url or --urls-file
// rather than the listing API.
func (c AppConfig) HasExplicitRefs() bool {
	return len(c.URLs) > 0 || c.URLsFile != ""
}

// Validate checks the configuration for inconsistent or out-of-range
// values. Errors are apperrors.ConfigError.
func (c AppConfig) Validate() error {
	switch {
	case c.MaxDocuments < 0:
		return apperrors.NewConfigError("--max-documents must be >= 0, got %d", c.MaxDocuments)
	case c.Timeout < 0:
		return apperrors.NewConfigError("--timeout must be >= 0, got %s", c.Timeout)
	case c.ChunkThreshold < 0:
		return apperrors.NewConfigError("--chunk-threshold must be >= 0, got %d", c.ChunkThreshold)
	case c.MaxParallelism < 0:
		return apperrors.NewConfigError("--max-parallelism must be >= 0, got %d", c.MaxParallelism)
	case c.RateLimit < 0:
		return apperrors.NewConfigError("--rate must be >= 0, got %g", c.RateLimit)
	case c.Burst < 0:
		return apperrors.NewConfigError("--burst must be >= 0, got %d", c.Burst)
	case c.Quiet && c.Verbose:
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	case c.Quiet && c.Stream:
		return apperrors.NewConfigError("--quiet and --stream are mutually exclusive")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("unknown --log-level %q", c.LogLevel)
	}
	if err := validateHTTPURL("--api-base", c.APIBase); err != nil {
		return err
	}
	for _, u := range c.URLs {
		if err := validateHTTPURL("--url", u); err != nil {
			return err
		}
	}
	if c.Completion != "" && !isSupportedShell(c.Completion) {
		return apperrors.NewConfigError("unsupported --completion shell %q (accepted values: bash, zsh, fish, powershell)", c.Completion)
	}
	return nil
}

func validateHTTPURL(flagName, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigError("%s must be an absolute http(s) URL, got %q", flagName, raw)
	}
	return nil
}

func isSupportedShell(shell string) bool {
	switch shell {
	case "bash", "zsh", "fish", "powershell":
		return true
	}
	return false
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ParseConfig parses the command-line arguments, applies environment
// overrides and validates the result. On --help it returns flag.ErrHelp.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The arguments, without the program name.
//   - errorWriter: Where usage and parse errors are written.
//   - homeDir: The directory holding the default calibration profile.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: A flag parse error, flag.ErrHelp, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, homeDir string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errorWriter, "Lists the top Hacker News stories (or the given URLs), fetches every\n")
		fmt.Fprintf(errorWriter, "document concurrently and counts its words.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery option can also be set with a %s<NAME> environment variable,\n", EnvPrefix)
		fmt.Fprintf(errorWriter, "e.g. %sMAX_DOCUMENTS=20. Command-line flags take precedence.\n", EnvPrefix)
	}

	config := AppConfig{}
	urls := stringList{}

	fs.IntVar(&config.MaxDocuments, "n", DefaultMaxDocuments, "Number of documents to process (shorthand).")
	fs.IntVar(&config.MaxDocuments, "max-documents", DefaultMaxDocuments, "Number of documents to process.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Per-document deadline (0 disables it).")
	fs.IntVar(&config.ChunkThreshold, "chunk-threshold", 0, "Bytes below which text is counted sequentially (0 = auto).")
	fs.IntVar(&config.MaxParallelism, "max-parallelism", 0, "Maximum goroutines used by the word counter (0 = auto).")

	fs.StringVar(&config.APIBase, "api-base", source.DefaultHackerNewsAPI, "Hacker News API root.")
	fs.Var(&urls, "url", "Document URL to process instead of top stories (repeatable).")
	fs.StringVar(&config.URLsFile, "urls-file", "", "File with one document URL per line.")
	fs.BoolVar(&config.TextOnly, "text-only", false, "Count the visible text of HTML pages instead of the raw body.")
	fs.Float64Var(&config.RateLimit, "rate", 0, "Maximum requests per second (0 = unlimited).")
	fs.IntVar(&config.Burst, "burst", 1, "Rate limiter burst size.")
	fs.StringVar(&config.UserAgent, "user-agent", "", "User-Agent header sent with every request.")

	fs.BoolVar(&config.Stream, "stream", false, "Print each document as soon as it completes.")
	fs.StringVar(&config.OutputFile, "output", "", "Write a report to this file (.json, .yaml or .yml).")
	fs.StringVar(&config.OutputFile, "o", "", "Write a report to this file (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only '<words>\\t<status>\\t<url>' lines.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print configuration and memory statistics.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (NO_COLOR is honored too).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: trace, debug, info, warn, error.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run.")

	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark chunk thresholds and save the best one.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", filepath.Join(homeDir, DefaultCalibrationProfile), "Calibration profile path.")
	fs.StringVar(&config.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish, powershell).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	config.URLs = urls

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, err)
		return AppConfig{}, err
	}
	return config, nil
}
