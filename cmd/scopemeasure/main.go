package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/getsentry/raven-go"

	"scopemeasure/internal/log"
	"scopemeasure/internal/meta"
	"scopemeasure/internal/metrics"
	"scopemeasure/internal/pipeline"
)

func main() {
	configPath := flag.String(
		"config",
		os.Getenv("SCOPEMEASURE_CONFIG"),
		"path to the configuration file on disk",
	)
	version := flag.Bool(
		"version",
		false,
		"print the compiled scopemeasure version SHA",
	)
	verbosity := flag.String(
		"verbosity",
		"",
		"desired logging verbosity: one of error, warn, info, debug (overrides config)",
	)
	stepsFlag := flag.String(
		"steps",
		"",
		"semicolon-separated operations to run as steps, e.g. 'make ; make test' (overrides config)",
	)
	name := flag.String(
		"name",
		"",
		"pipeline name used to label measurements (overrides config)",
	)
	flag.Parse()

	// Report the compiled version and exit
	if *version {
		fmt.Printf("scopemeasure/%s\n", meta.VersionSHA)
		return
	}

	// Parse application configuration; an absent path means defaults only
	config := meta.DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = meta.ParseConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	// Logging configuration; default to log.Error verbosity
	if *verbosity != "" {
		config.Logging.Level = *verbosity
	}
	level, _ := log.ParseLevel(config.Logging.Level)

	var logger log.Logger
	if config.Logging.Format == meta.JSONFormat {
		logger = log.NewZerologLogger(os.Stderr, level)
	} else {
		logger = log.NewConsoleLogger(os.Stdout, level)
	}
	logger.Debug("main: initialized logger: level=%v format=%s", level, config.Logging.Format)

	// Configure error reporting
	if config.Application.SentryDSN != "" {
		if err := raven.SetDSN(config.Application.SentryDSN); err != nil {
			logger.Warn("main: invalid sentry DSN; disabling error reporting: err=%v", err)
		}
		raven.SetRelease(meta.VersionSHA)
	}

	if *name != "" {
		config.Pipeline.Name = *name
	}

	// Configure metrics reporting
	scopeHook := metrics.NewNoopScopeHook()
	pipelineHook := metrics.NewNoopPipelineHook()

	if config.Metrics != nil && config.Metrics.Statsd != nil {
		logger.Info(
			"main: configuring statsd metrics reporting: addr=%s sample_rate=%f",
			config.Metrics.Statsd.Address,
			config.Metrics.Statsd.SampleRate,
		)

		var err error
		if scopeHook, err = metrics.NewAsyncStatsdScopeHook(
			config.Metrics.Statsd.Address,
			config.Metrics.Statsd.SampleRate,
		); err != nil {
			panic(err)
		}

		if pipelineHook, err = metrics.NewAsyncStatsdPipelineHook(
			config.Pipeline.Name,
			config.Metrics.Statsd.Address,
			config.Metrics.Statsd.SampleRate,
		); err != nil {
			panic(err)
		}
	} else {
		logger.Debug("main: no metrics output engine specified; disabling metrics")
	}

	// Resolve the steps to run; the command line takes precedence over the config file
	var steps []pipeline.Step
	var err error
	if *stepsFlag != "" {
		steps, err = pipeline.StepsFromSequence(*stepsFlag)
	} else {
		steps, err = config.Steps()
	}
	if err != nil {
		logger.Error("main: invalid steps: err=%v", err)
		os.Exit(2)
	}

	if len(steps) == 0 {
		logger.Error("main: no steps specified; use -steps or the pipeline.steps config key")
		os.Exit(2)
	}

	// Config validation has already rejected unknown policies
	policy, _ := pipeline.ParseFailurePolicy(config.Pipeline.FailurePolicy)

	runner := &pipeline.Runner{
		Name:         config.Pipeline.Name,
		Steps:        steps,
		Exec:         pipeline.NewCommandExecutor(os.Stdout, os.Stderr),
		Logger:       logger,
		ScopeHook:    scopeHook,
		PipelineHook: pipelineHook,
		Opts: pipeline.RunnerOpts{
			FailurePolicy: policy,
		},
	}

	// Run until completion, interruption, or timeout
	err = func() error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if config.Pipeline.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, config.Pipeline.Timeout)
			defer cancel()
		}

		return runner.Run(ctx)
	}()

	// Flush pending metrics and error reports before exiting
	if closeErr := scopeHook.Close(); closeErr != nil {
		logger.Warn("main: error closing scope metrics hook: err=%v", closeErr)
	}
	if closeErr := pipelineHook.Close(); closeErr != nil {
		logger.Warn("main: error closing pipeline metrics hook: err=%v", closeErr)
	}
	raven.Wait()

	if err != nil {
		os.Exit(1)
	}
}
