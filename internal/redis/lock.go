package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireVerifyLock attempts to acquire the verification lock for a
// booking. The lock guarantees a single outstanding verification
// submission per booking even across concurrent requests.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireVerifyLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:verify:%s", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseVerifyLock releases the verification lock for a booking.
func (s *LockStore) ReleaseVerifyLock(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf("lock:verify:%s", bookingID)

	return s.client.Del(ctx, key).Err()
}
