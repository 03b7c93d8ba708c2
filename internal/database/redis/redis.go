package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client used for evaluation mutation locks and
// validation job dedup markers.
type Client struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client.
func NewRedisClient(host, port, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: client}, nil
}

// GetClient returns the underlying Redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 50 * time.Millisecond
	lockRetries   = 40
)

func evalLockKey(serviceID, measurementID, campaignID uuid.UUID) string {
	return fmt.Sprintf("maturity:eval-lock:%s:%s:%s", serviceID, measurementID, campaignID)
}

func validationMarkerKey(evaluationID uuid.UUID) string {
	return fmt.Sprintf("maturity:validation-inflight:%s", evaluationID)
}

// AcquireEvalLock serializes read-modify-write on one evaluation record.
// It retries with a short wait and gives up after a bounded number of
// attempts so a stuck holder cannot block writers forever.
func (c *Client) AcquireEvalLock(ctx context.Context, serviceID, measurementID, campaignID uuid.UUID) (func(), error) {
	key := evalLockKey(serviceID, measurementID, campaignID)
	token := uuid.NewString()

	for attempt := 0; attempt < lockRetries; attempt++ {
		ok, err := c.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire evaluation lock: %w", err)
		}
		if ok {
			release := func() {
				// Release only if we still own the lock.
				releaseScript := redis.NewScript(`
					if redis.call("GET", KEYS[1]) == ARGV[1] then
						return redis.call("DEL", KEYS[1])
					end
					return 0
				`)
				releaseScript.Run(context.Background(), c.client, []string{key}, token)
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}

	return nil, fmt.Errorf("failed to acquire evaluation lock: contention on %s", key)
}

// MarkValidationInFlight records that a validation job is queued for the
// evaluation. Returns false when one is already pending.
func (c *Client) MarkValidationInFlight(ctx context.Context, evaluationID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, validationMarkerKey(evaluationID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark validation in flight: %w", err)
	}
	return ok, nil
}

// ClearValidationInFlight drops the in-flight marker once a validation job
// has finished (or been discarded).
func (c *Client) ClearValidationInFlight(ctx context.Context, evaluationID uuid.UUID) error {
	if err := c.client.Del(ctx, validationMarkerKey(evaluationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear validation marker: %w", err)
	}
	return nil
}
