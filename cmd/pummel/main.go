package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pummelhq/pummel/internal/config"
	"github.com/pummelhq/pummel/internal/metrics"
	"github.com/pummelhq/pummel/internal/output"
	"github.com/pummelhq/pummel/internal/requester"
	"github.com/pummelhq/pummel/internal/runner"
	"github.com/pummelhq/pummel/internal/threshold"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}

	if cfg.Interactive || (cfg.TargetURL == "" && cfg.ConfigFile == "") {
		prompter := config.NewPrompter(stdin, stdout)
		if err := prompter.Collect(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.Verbose)

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	client := requester.NewClient(cfg)
	defer client.CloseIdleConnections()

	collector := metrics.NewCollector()
	exec := requester.New(cfg, client)

	var progress *output.Progress
	if !cfg.JSONOutput && !cfg.NoProgress {
		progress = output.NewProgress(stdout, cfg.Total, collector.Snapshot)
	}

	onOutcome := func(o metrics.Outcome) {
		if progress != nil {
			progress.Increment()
		}
		if cfg.LogErrors && o.Failed() {
			log.Warn().
				Int("request_id", o.RequestID).
				Str("kind", o.ErrorKind.Label()).
				Str("detail", o.ErrorDetail).
				Msg("request failed")
		}
	}

	dispatcher, err := runner.New(runner.Options{
		Rate:      cfg.Rate,
		Total:     cfg.Total,
		Executor:  exec,
		Recorder:  collector,
		OnOutcome: onOutcome,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Str("target", cfg.TargetURL).
		Str("method", cfg.Method).
		Int("rate", cfg.Rate).
		Int("total", cfg.Total).
		Bool("random_user_agent", cfg.RandomUserAgent).
		Msg("starting load test")

	result := dispatcher.Run(ctx)

	if progress != nil {
		progress.Finish(result.State == runner.StateCompleted)
	}
	if result.State == runner.StateFailed {
		return result.Err
	}
	if result.State == runner.StateCancelled {
		log.Warn().Msg("load test interrupted; reporting partial results")
	}

	report := collector.Report(cfg.Rate)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, report); err != nil {
			return err
		}
	} else {
		output.PrintReport(stdout, report)
	}

	if failed := reportThresholds(stdout, thresholds, report); failed > 0 {
		return fmt.Errorf("%d threshold(s) failed", failed)
	}
	return nil
}

func reportThresholds(w io.Writer, thresholds []threshold.Threshold, rep metrics.Report) int {
	results := threshold.Evaluate(thresholds, rep)
	if len(results) == 0 {
		return 0
	}

	fmt.Fprintln(w, "\nThresholds:")
	failed := 0
	for _, res := range results {
		fmt.Fprintf(w, "  %s\n", res.Message)
		if !res.Pass {
			failed++
		}
	}
	return failed
}

func setupLogging(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli})
}
