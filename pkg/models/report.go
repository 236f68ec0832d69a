package models

import "time"

// Job names a sync entry point
type Job string

const (
	JobSyncEvents Job = "sync-events"
	JobSyncF1     Job = "sync-f1"
)

// SportResult is the per-sport contribution to a run
type SportResult struct {
	Sport    string        `json:"sport"`
	Provider string        `json:"provider"`
	Fetched  int           `json:"fetched"`
	Upcoming int           `json:"upcoming"` // after the future filter
	Duration time.Duration `json:"durationNs"`
}

// SyncReport summarizes one run of a sync job
type SyncReport struct {
	RunID      string    `json:"runId"`
	Job        Job       `json:"job"`
	DryRun     bool      `json:"dryRun,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Deleted             int64 `json:"deleted"`
	Processed           int   `json:"processed"` // upcoming events across sports
	Unique              int   `json:"unique"`
	DroppedNoExternalID int   `json:"droppedNoExternalId"`
	DroppedInvalid      int   `json:"droppedInvalid,omitempty"`
	Duplicates          int   `json:"duplicates"`
	Inserted            int   `json:"inserted"`
	Upserted            int   `json:"upserted,omitempty"`
	Failed              int   `json:"failed,omitempty"`

	PerSport []SportResult `json:"perSport,omitempty"`

	// InsertError is the store write failure, if any. The run still completes.
	InsertError string `json:"insertError,omitempty"`
	// Error is the fatal failure that aborted the run, if any
	Error string `json:"error,omitempty"`
}

// Duration is the wall time of the run
func (r SyncReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the run finished without a fatal or write error
func (r SyncReport) Succeeded() bool {
	return r.Error == "" && r.InsertError == ""
}
