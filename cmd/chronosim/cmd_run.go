// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/chronosim/config"
	"github.com/katalvlaran/chronosim/mcmc"
	"github.com/katalvlaran/chronosim/model/events"
)

const shutdownTimeout = 5 * time.Second

func newRunCmd(load loader) *cobra.Command {
	var (
		eventsPath  string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Date the events of a study with MCMC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			study, err := events.LoadStudy(eventsPath)
			if err != nil {
				return err
			}
			shutdown, err := setupTracing(cfg.Trace, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdown(sctx); err != nil {
					logger.Warn("tracing: shutdown", slog.String("error", err.Error()))
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runStudy(ctx, cfg, study, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&eventsPath, "events", "", "YAML study file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("events")

	return cmd
}

// runStudy runs the scheduler on a worker goroutine while another one
// renders progress, then prints the run log and the posterior.
func runStudy(ctx context.Context, cfg config.Config, study events.Study, logger *slog.Logger, out, progress io.Writer) error {
	model, err := events.New(study,
		events.WithLogger(logger),
		events.WithSpline(cfg.Spline.MinStep, cfg.Spline.Smoothing),
	)
	if err != nil {
		return err
	}
	rep := mcmc.NewChanReporter(mcmc.DefaultEventBuffer)
	sched := mcmc.NewScheduler(model, cfg.RunConfiguration(),
		mcmc.WithLogger(logger),
		mcmc.WithReporter(rep),
	)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, runDone := context.WithCancel(gctx)

	g.Go(func() error {
		defer runDone()
		defer rep.Close()
		return sched.Run(runCtx)
	})
	g.Go(func() error {
		renderProgress(rep.Events(), progress)
		return nil
	})
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics: listening", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-runCtx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err = g.Wait()
	fmt.Fprint(out, sched.Log())
	if dropped := rep.Dropped(); dropped > 0 {
		logger.Debug("progress events dropped", slog.Uint64("count", dropped))
	}
	if err != nil {
		return err
	}

	res, err := model.Result()
	if err != nil {
		return err
	}
	fmt.Fprint(out, res.String())

	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// renderProgress prints each phase label and its completion in quarters.
func renderProgress(ch <-chan mcmc.Event, w io.Writer) {
	var (
		label   string
		lo, hi  int
		printed int
	)
	for ev := range ch {
		switch ev.Kind {
		case mcmc.EventPhase:
			label, lo, hi, printed = ev.Label, ev.Min, ev.Max, 0
			fmt.Fprintln(w, label)
		case mcmc.EventProgress:
			if hi <= lo {
				continue
			}
			quarter := 4 * (ev.Value - lo) / (hi - lo)
			if quarter > printed {
				printed = quarter
				fmt.Fprintf(w, "  %s: %d%%\n", label, 25*quarter)
			}
		}
	}
}
