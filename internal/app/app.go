// Package app wires configuration, document sources, the orchestrator and
// the CLI presentation into the wordcount command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/wordcount/internal/calibration"
	"github.com/agbru/wordcount/internal/cli"
	"github.com/agbru/wordcount/internal/config"
	apperrors "github.com/agbru/wordcount/internal/errors"
	"github.com/agbru/wordcount/internal/logging"
	"github.com/agbru/wordcount/internal/metrics"
	"github.com/agbru/wordcount/internal/orchestration"
	"github.com/agbru/wordcount/internal/server"
	"github.com/agbru/wordcount/internal/source"
	"github.com/agbru/wordcount/internal/sysmon"
	"github.com/agbru/wordcount/internal/ui"
	"github.com/agbru/wordcount/internal/wordcount"
)

// httpClientTimeout bounds every request regardless of the per-document deadline.
const httpClientTimeout = 30 * time.Second

// Application represents the wordcount application instance.
type Application struct {
	Config    config.AppConfig
	Source    source.Source
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the document source derived from the configuration.
func WithSource(src source.Source) AppOption {
	return func(a *Application) { a.Source = src }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "wordcount"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, home)
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = config.ApplyAdaptiveThresholds(cfg)
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Calibrate {
		return calibration.RunCalibration(ctx, out, a.Config.CalibrationProfile)
	}
	return a.runFetch(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runFetch lists, fetches and counts the documents, then reports them.
func (a *Application) runFetch(ctx context.Context, out io.Writer) int {
	logger := a.newLogger()

	src := a.Source
	if src == nil {
		var err error
		if src, err = a.buildSource(); err != nil {
			return apperrors.HandleRunError(err, a.ErrWriter)
		}
	}

	recorder := metrics.NewRecorder()
	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, recorder, logger)
		if err := srv.Start(); err != nil {
			return apperrors.HandleRunError(
				apperrors.NewConfigError("cannot serve metrics on %s: %v", a.Config.MetricsAddr, err), a.ErrWriter)
		}
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Warn("metrics server shutdown", logging.Err(err))
			}
		}()
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
	}

	// Choose progress reporter and presenter based on quiet mode
	var (
		progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{Stream: a.Config.Stream}
		presenter        orchestration.ResultPresenter  = cli.CLIResultPresenter{}
		progressOut                                     = out
	)
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		presenter = cli.QuietResultPresenter{}
		progressOut = io.Discard
	}

	memCollector := metrics.NewMemoryCollector()
	before := memCollector.Snapshot()

	var monitor *sysmon.Monitor
	if a.Config.Verbose {
		monitor = sysmon.NewMonitor(sysmon.DefaultInterval)
		monitor.Start(ctx)
	}

	orch := orchestration.NewOrchestrator(src,
		orchestration.WithCounter(wordcount.New(a.Config.ToCounterOptions()...)),
		orchestration.WithLogger(logger),
		orchestration.WithMetrics(recorder),
		orchestration.WithProgress(progressReporter, progressOut),
	)
	outcomes, runErr := orch.Run(ctx, a.Config.MaxDocuments, a.Config.Timeout)
	var usage sysmon.Summary
	if monitor != nil {
		usage = monitor.Stop()
	}
	if runErr != nil && outcomes == nil {
		return apperrors.HandleRunError(runErr, a.ErrWriter)
	}

	exitCode := orchestration.AnalyzeOutcomes(outcomes, presenter, out)

	if a.Config.OutputFile != "" {
		if err := cli.WriteReport(a.Config.OutputFile, outcomes, orchestration.Summarize(outcomes)); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
				ui.ColorSuccess(), ui.ColorPrimary(), a.Config.OutputFile, ui.ColorReset())
		}
	}

	if a.Config.Verbose {
		cli.DisplayMemoryStats(memCollector.Snapshot().Since(before), out)
		cli.DisplaySystemUsage(usage, out)
	}

	if runErr != nil {
		// Interrupted: the partial results above are still reported.
		return apperrors.HandleRunError(runErr, a.ErrWriter)
	}
	return exitCode
}

// buildSource creates the HTTP-backed source described by the configuration.
func (a *Application) buildSource() (source.Source, error) {
	ua := a.Config.UserAgent
	if ua == "" {
		ua = userAgent()
	}
	fetcher := source.NewHTTPFetcher(source.NewHTTPClient(httpClientTimeout),
		source.WithUserAgent(ua),
		source.WithRateLimit(a.Config.ToRateLimitConfig()),
		source.WithTextExtraction(a.Config.TextOnly),
	)

	if !a.Config.HasExplicitRefs() {
		return source.NewHackerNews(fetcher, source.WithBaseURL(a.Config.APIBase)), nil
	}

	refs := source.Refs(a.Config.URLs...)
	if a.Config.URLsFile != "" {
		fileRefs, err := source.ReadRefsFile(a.Config.URLsFile)
		if err != nil {
			return nil, apperrors.NewConfigError("--urls-file: %v", err)
		}
		refs = append(refs, fileRefs...)
	}
	return source.NewList(fetcher, refs), nil
}

// newLogger returns a console logger on the error writer at the configured level.
func (a *Application) newLogger() logging.Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{
		Out:        a.ErrWriter,
		NoColor:    !ui.ColorEnabled(),
		TimeFormat: time.Kitchen,
	}).Level(logging.ParseLevel(a.Config.LogLevel)).With().Timestamp().Logger()
	return logging.NewZerologAdapter(zl)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
