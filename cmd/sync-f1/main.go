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
	season := flag.Int("season", 0, "season to sync (default: configured season or the current year)")
	dryRun := flag.Bool("dry-run", false, "sync into an in-memory store and print the report")
	flag.Parse()

	os.Exit(run(*configPath, *season, *dryRun))
}

func run(configPath string, season int, dryRun bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Init("text", logging.ParseLevel("info")).Error("failed to load config", "error", err)
		return 1
	}
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level)).With("service", "sync-f1")

	if season == 0 {
		season = cfg.Sync.F1Season
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, logger, dryRun)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		return 1
	}
	defer deps.Close()

	release, err := deps.Lock(ctx, string(models.JobSyncF1))
	if err != nil {
		logger.Error("sync not started", "error", err)
		return 1
	}
	defer release(context.Background())

	f1, err := deps.F1Syncer()
	if err != nil {
		logger.Error("failed to build sync job", "error", err)
		return 1
	}

	report, err := f1.Run(ctx, season)

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	}

	return app.ExitCode(logger, *report, err)
}
