package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

// RunsStream receives one entry per finished sync run
const RunsStream = "events.sync.runs"

// StreamPublisher publishes sync run reports to a Redis stream
type StreamPublisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client redis.Cmdable) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: RunsStream,
		maxLen: 1000,
	}
}

// PublishRun appends report to the runs stream
func (p *StreamPublisher) PublishRun(ctx context.Context, report models.SyncReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}

	status := "ok"
	if !report.Succeeded() {
		status = "failed"
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":     string(data),
			"run_id":   report.RunID,
			"job":      string(report.Job),
			"status":   status,
			"inserted": report.Inserted + report.Upserted,
		},
	}).Err()
}

// ObserveRun publishes the report once a run finishes
func (p *StreamPublisher) ObserveRun(ctx context.Context, report models.SyncReport) error {
	return p.PublishRun(ctx, report)
}
