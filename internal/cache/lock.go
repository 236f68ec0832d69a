package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	syncLockKey = "sync:lock"

	// SyncLockTTL bounds how long a crashed job can hold the lock
	SyncLockTTL = 30 * time.Minute
)

var ErrSyncInProgress = errors.New("another sync job holds the lock")

// releaseScript deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseFunc gives up a held lock
type ReleaseFunc func(ctx context.Context) error

// AcquireSyncLock takes the process-wide sync lock shared by every sync job.
// It returns ErrSyncInProgress when another holder is live.
func (c *RedisCache) AcquireSyncLock(ctx context.Context, owner string, ttl time.Duration) (ReleaseFunc, error) {
	if ttl <= 0 {
		ttl = SyncLockTTL
	}
	token := owner + ":" + uuid.New().String()

	ok, err := c.client.SetNX(ctx, syncLockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !ok {
		holder, _ := c.client.Get(ctx, syncLockKey).Result()
		return nil, fmt.Errorf("%w (held by %s)", ErrSyncInProgress, holder)
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, c.client, []string{syncLockKey}, token).Err(); err != nil {
			return fmt.Errorf("failed to release sync lock: %w", err)
		}
		return nil
	}, nil
}
