package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rutvikdhakate/sports-calendar/internal/app"
	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/logging"
	"github.com/rutvikdhakate/sports-calendar/internal/scheduler"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	runNow := flag.Bool("run-now", false, "run the full sync once before waiting for the schedule")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Init("text", logging.ParseLevel("info")).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level)).With("service", "sync-scheduler")

	ctx := context.Background()
	deps, err := app.Open(ctx, cfg, logger, false)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	syncEvents := func(ctx context.Context) error {
		release, err := deps.Lock(ctx, string(models.JobSyncEvents))
		if err != nil {
			return err
		}
		defer release(context.Background())

		orch, err := deps.Orchestrator()
		if err != nil {
			return err
		}
		_, err = orch.Run(ctx)
		return err
	}
	syncF1 := func(ctx context.Context) error {
		release, err := deps.Lock(ctx, string(models.JobSyncF1))
		if err != nil {
			return err
		}
		defer release(context.Background())

		f1, err := deps.F1Syncer()
		if err != nil {
			return err
		}
		_, err = f1.Run(ctx, cfg.Sync.F1Season)
		return err
	}

	sched := scheduler.New(logger, 30*time.Minute)
	if err := sched.Add(string(models.JobSyncEvents), cfg.Schedule.SyncEvents, syncEvents); err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}
	if cfg.Schedule.SyncF1 != "" {
		if err := sched.Add(string(models.JobSyncF1), cfg.Schedule.SyncF1, syncF1); err != nil {
			logger.Error("invalid schedule", "error", err)
			os.Exit(1)
		}
	}

	sched.Start()
	logger.Info("scheduler started",
		"sync_events", cfg.Schedule.SyncEvents,
		"next_sync_events", sched.Next(string(models.JobSyncEvents)),
		"sync_f1", cfg.Schedule.SyncF1,
	)

	if *runNow {
		go sched.RunNow(string(models.JobSyncEvents), syncEvents)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown

	logger.Info("received signal, stopping scheduler", "signal", sig.String())
	sched.Stop()
	logger.Info("scheduler stopped")
}
