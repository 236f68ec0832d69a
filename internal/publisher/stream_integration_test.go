//go:build integration

package publisher

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/rutvikdhakate/sports-calendar/pkg/models"
)

func TestStreamPublisher_PublishRun(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	client.Del(ctx, RunsStream)

	p := NewStreamPublisher(client)
	if err := p.ObserveRun(ctx, models.SyncReport{RunID: "r1", Job: models.JobSyncF1, Upserted: 24}); err != nil {
		t.Fatalf("PublishRun() error = %v", err)
	}

	entries, err := client.XRange(ctx, RunsStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Values["job"] != "sync-f1" || entries[0].Values["status"] != "ok" {
		t.Errorf("Unexpected entry %v", entries[0].Values)
	}
}
