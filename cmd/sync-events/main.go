package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rutvikdhakate/sports-calendar/internal/app"
	"github.com/rutvikdhakate/sports-calendar/internal/config"
	"github.com/rutvikdhakate/sports-calendar/internal/logging"
	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	dryRun := flag.Bool("dry-run", false, "sync into an in-memory store and print the report")
	flag.Parse()

	os.Exit(run(*configPath, *dryRun))
}

func run(configPath string, dryRun bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Init("text", logging.ParseLevel("info")).Error("failed to load config", "error", err)
		return 1
	}
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level)).With("service", "sync-events")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, logger, dryRun)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		return 1
	}
	defer deps.Close()

	release, err := deps.Lock(ctx, string(models.JobSyncEvents))
	if err != nil {
		logger.Error("sync not started", "error", err)
		return 1
	}
	defer release(context.Background())

	orch, err := deps.Orchestrator()
	if err != nil {
		logger.Error("failed to build sync job", "error", err)
		return 1
	}

	logger.Info("starting sync", "sports", cfg.SportKeys(), "delay", cfg.Sync.Delay.String())
	report, err := orch.Run(ctx)

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	}

	return app.ExitCode(logger, *report, err)
}
