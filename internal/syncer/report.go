package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// RunObserver is told about every finished run, successful or not
type RunObserver interface {
	ObserveRun(ctx context.Context, report models.SyncReport) error
}

// RunObserverFunc adapts a function to RunObserver
type RunObserverFunc func(ctx context.Context, report models.SyncReport) error

func (f RunObserverFunc) ObserveRun(ctx context.Context, report models.SyncReport) error {
	return f(ctx, report)
}

const observeTimeout = 10 * time.Second

// notify hands report to every observer. Observer failures are logged only.
// The run context may already be cancelled, so observers get their own deadline.
func notify(ctx context.Context, logger *slog.Logger, observers []RunObserver, report models.SyncReport) {
	if len(observers) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), observeTimeout)
	defer cancel()

	for _, o := range observers {
		if err := o.ObserveRun(ctx, report); err != nil {
			logger.Warn("run observer failed", "run_id", report.RunID, "error", err)
		}
	}
}

// LogReport writes the run summary at info, or error when the run failed
func LogReport(logger *slog.Logger, report models.SyncReport) {
	attrs := []any{
		"run_id", report.RunID,
		"job", string(report.Job),
		"dry_run", report.DryRun,
		"deleted", report.Deleted,
		"processed", report.Processed,
		"unique", report.Unique,
		"dropped_no_external_id", report.DroppedNoExternalID,
		"dropped_invalid", report.DroppedInvalid,
		"duplicates", report.Duplicates,
		"inserted", report.Inserted,
		"duration", report.Duration().Round(time.Millisecond).String(),
	}
	if report.Job == models.JobSyncF1 {
		attrs = append(attrs, "upserted", report.Upserted, "failed", report.Failed)
	}

	switch {
	case report.Error != "":
		logger.Error("sync run failed", append(attrs, "error", report.Error)...)
	case report.InsertError != "":
		logger.Error("sync run finished with write errors", append(attrs, "insert_error", report.InsertError)...)
	default:
		logger.Info("sync run complete", attrs...)
	}
}
