package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

const namespace = "sports_calendar"

// SyncMetrics holds the gauges describing the latest run of one job. Sync
// jobs are short-lived, so values are pushed to a Pushgateway rather than
// scraped; the job name travels as the push grouping key, never as a label.
type SyncMetrics struct {
	registry *prometheus.Registry

	events      *prometheus.GaugeVec
	sportEvents *prometheus.GaugeVec
	duration    prometheus.Gauge
	success     prometheus.Gauge
	// unlabeled vec so the gauge is only exported once a run has succeeded
	lastSuccess *prometheus.GaugeVec
}

// NewSyncMetrics registers the sync gauges on a private registry
func NewSyncMetrics() *SyncMetrics {
	m := &SyncMetrics{registry: prometheus.NewRegistry()}

	m.events = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "events",
		Help:      "Event counts of the last run by pipeline stage",
	}, []string{"stage"})
	m.sportEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "sport_events",
		Help:      "Upcoming events contributed by each sport in the last run",
	}, []string{"sport", "provider"})
	m.duration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "duration_seconds",
		Help:      "Wall time of the last run",
	})
	m.success = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "success",
		Help:      "1 if the last run completed without errors",
	})
	m.lastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time the last successful run finished",
	}, nil)

	m.registry.MustRegister(m.events, m.sportEvents, m.duration, m.success, m.lastSuccess)
	return m
}

// Registry exposes the underlying registry
func (m *SyncMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record sets every gauge from report
func (m *SyncMetrics) Record(report models.SyncReport) {
	stages := map[string]float64{
		"deleted":                float64(report.Deleted),
		"processed":              float64(report.Processed),
		"unique":                 float64(report.Unique),
		"dropped_no_external_id": float64(report.DroppedNoExternalID),
		"dropped_invalid":        float64(report.DroppedInvalid),
		"duplicates":             float64(report.Duplicates),
		"inserted":               float64(report.Inserted),
		"upserted":               float64(report.Upserted),
		"failed":                 float64(report.Failed),
	}
	for stage, v := range stages {
		m.events.WithLabelValues(stage).Set(v)
	}

	for _, s := range report.PerSport {
		m.sportEvents.WithLabelValues(s.Sport, s.Provider).Set(float64(s.Upcoming))
	}

	m.duration.Set(report.Duration().Seconds())
	if report.Succeeded() {
		m.success.Set(1)
		m.lastSuccess.WithLabelValues().Set(float64(report.FinishedAt.Unix()))
	} else {
		m.success.Set(0)
	}
}

// Pusher records reports and pushes them to a Pushgateway
type Pusher struct {
	metrics *SyncMetrics
	url     string
}

// NewPusher creates a pusher targeting the Pushgateway at url
func NewPusher(metrics *SyncMetrics, url string) *Pusher {
	return &Pusher{metrics: metrics, url: url}
}

// ObserveRun records report and pushes the job's metrics under the job
// grouping key. Add (POST) keeps the gateway's last-success timestamp when a
// failed run does not export one.
func (p *Pusher) ObserveRun(ctx context.Context, report models.SyncReport) error {
	p.metrics.Record(report)

	err := push.New(p.url, string(report.Job)).
		Gatherer(p.metrics.Registry()).
		AddContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
