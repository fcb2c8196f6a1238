package logics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore tracks consecutive failed two-factor attempts per user.
// The counter lives server-side with an explicit expiry window instead of in
// a client cookie, so a stale or forged cookie can never change the count.
type AttemptStore interface {
	Increment(ctx context.Context, userID string) (int, error)
	Clear(ctx context.Context, userID string) error
}

const attemptKeyPrefix = "2fa:attempts:"

// redisAttemptStore keeps the counters in Redis.
type redisAttemptStore struct {
	client *redis.Client
	window time.Duration
}

// NewAttemptStore creates a Redis-backed AttemptStore. Counters expire after
// the given window; a zero window keeps them for 15 minutes.
func NewAttemptStore(client *redis.Client, window time.Duration) AttemptStore {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &redisAttemptStore{client: client, window: window}
}

func (s *redisAttemptStore) key(userID string) string {
	return fmt.Sprintf("%s%s", attemptKeyPrefix, userID)
}

// Increment bumps the counter and returns the new value. The expiry window
// restarts on every failed attempt.
func (s *redisAttemptStore) Increment(ctx context.Context, userID string) (int, error) {
	key := s.key(userID)
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *redisAttemptStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
