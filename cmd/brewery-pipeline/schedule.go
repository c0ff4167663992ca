package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/metrics"
	"github.com/turbot/brewery-pipeline/pipeline"
	"github.com/turbot/brewery-pipeline/stage"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on the configured cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			return runSchedule(ctx, c, viper.GetString(flagMetricsAddr), viper.GetBool(flagRunNow))
		},
	}

	cmd.Flags().String(flagMetricsAddr, "", "Serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().Bool(flagRunNow, false, "Run the pipeline once immediately, before the first scheduled run")
	_ = viper.BindPFlag(flagMetricsAddr, cmd.Flags().Lookup(flagMetricsAddr))
	_ = viper.BindPFlag(flagRunNow, cmd.Flags().Lookup(flagRunNow))
	return cmd
}

func runSchedule(ctx context.Context, c *config.PipelineConfig, metricsAddr string, runNow bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewObserver(reg)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("Serving metrics", "addr", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	runner := pipeline.NewRunner(c, stage.WithObserver(observer))
	job := cron.FuncJob(func() {
		state, err := runner.Run(ctx)
		if err != nil {
			slog.Error("Scheduled run failed", "state", state, "error", err)
			return
		}
		slog.Info("Scheduled run complete", "state", state)
	})

	return scheduleJob(ctx, c.Schedule, job, runNow)
}

// scheduleJob runs job on the cron schedule until ctx is done, then waits for any run in progress,
// including one started by runNow, before returning
func scheduleJob(ctx context.Context, schedule string, job cron.Job, runNow bool) error {
	logger := cronLogger{}
	// the immediate run shares the wrapper, so it too is skipped if a run is in progress
	wrapped := cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(job)
	scheduler := cron.New(cron.WithLogger(logger))
	if _, err := scheduler.AddJob(schedule, wrapped); err != nil {
		return err
	}

	slog.Info("Scheduler started", "schedule", schedule)
	scheduler.Start()

	var immediate sync.WaitGroup
	if runNow {
		immediate.Add(1)
		go func() {
			defer immediate.Done()
			wrapped.Run()
		}()
	}

	<-ctx.Done()
	slog.Info("Scheduler stopping, waiting for any running pipeline")
	<-scheduler.Stop().Done()
	immediate.Wait()
	return nil
}

// cronLogger writes cron's own log lines through slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(msg, append(keysAndValues, "error", err)...)
}
