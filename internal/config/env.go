// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the WORDCOUNT_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
// Unparsable values are ignored.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(key string, field func(*AppConfig) *int, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*field(c) = parsed
		}
	}}
}

func boolOverride(key string, field func(*AppConfig) *bool, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		*field(c) = parseBoolEnv(v, *field(c))
	}}
}

func stringOverride(key string, field func(*AppConfig) *string, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, v string) {
		*field(c) = v
	}}
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	intOverride("MAX_DOCUMENTS", func(c *AppConfig) *int { return &c.MaxDocuments }, "n", "max-documents"),
	intOverride("CHUNK_THRESHOLD", func(c *AppConfig) *int { return &c.ChunkThreshold }, "chunk-threshold"),
	intOverride("MAX_PARALLELISM", func(c *AppConfig) *int { return &c.MaxParallelism }, "max-parallelism"),
	intOverride("BURST", func(c *AppConfig) *int { return &c.Burst }, "burst"),
	{"RATE", []string{"rate"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimit = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	stringOverride("API_BASE", func(c *AppConfig) *string { return &c.APIBase }, "api-base"),
	stringOverride("URLS_FILE", func(c *AppConfig) *string { return &c.URLsFile }, "urls-file"),
	stringOverride("USER_AGENT", func(c *AppConfig) *string { return &c.UserAgent }, "user-agent"),
	stringOverride("OUTPUT", func(c *AppConfig) *string { return &c.OutputFile }, "output", "o"),
	stringOverride("LOG_LEVEL", func(c *AppConfig) *string { return &c.LogLevel }, "log-level"),
	stringOverride("METRICS_ADDR", func(c *AppConfig) *string { return &c.MetricsAddr }, "metrics-addr"),
	stringOverride("CALIBRATION_PROFILE", func(c *AppConfig) *string { return &c.CalibrationProfile }, "calibration-profile"),

	// Boolean overrides
	boolOverride("TEXT_ONLY", func(c *AppConfig) *bool { return &c.TextOnly }, "text-only"),
	boolOverride("STREAM", func(c *AppConfig) *bool { return &c.Stream }, "stream"),
	boolOverride("QUIET", func(c *AppConfig) *bool { return &c.Quiet }, "quiet", "q"),
	boolOverride("VERBOSE", func(c *AppConfig) *bool { return &c.Verbose }, "verbose", "v"),
	boolOverride("NO_COLOR", func(c *AppConfig) *bool { return &c.NoColor }, "no-color"),
	boolOverride("CALIBRATE", func(c *AppConfig) *bool { return &c.Calibrate }, "calibrate"),
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
