package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpCodePrefix     = "otp:code:"
	otpCooldownPrefix = "otp:cooldown:"
	otpAttemptsPrefix = "otp:attempts:"
)

// ErrCodeNotFound is returned when no OTP code exists for a booking,
// either because none was dispatched or because it expired.
var ErrCodeNotFound = errors.New("otp code not found")

// OtpStore holds dispatched OTP codes, resend cooldowns and attempt
// counters in Redis. Codes expire on their own via TTL.
type OtpStore struct {
	client *redis.Client
}

// NewOtpStore creates a new OtpStore.
func NewOtpStore(client *redis.Client) *OtpStore {
	return &OtpStore{client: client}
}

// StoreCode saves the dispatched code for a booking with an expiry.
// Re-dispatch overwrites the previous code and resets the attempt counter.
func (s *OtpStore) StoreCode(ctx context.Context, bookingID, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpCodePrefix+bookingID, code, ttl).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, otpAttemptsPrefix+bookingID).Err()
}

// GetCode retrieves the outstanding code for a booking.
func (s *OtpStore) GetCode(ctx context.Context, bookingID string) (string, error) {
	code, err := s.client.Get(ctx, otpCodePrefix+bookingID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeNotFound
		}
		return "", err
	}
	return code, nil
}

// ConsumeCode deletes the code once verification succeeds so it can never
// be replayed.
func (s *OtpStore) ConsumeCode(ctx context.Context, bookingID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, otpCodePrefix+bookingID)
	pipe.Del(ctx, otpAttemptsPrefix+bookingID)
	_, err := pipe.Exec(ctx)
	return err
}

// IncrementAttempts bumps the failed-attempt counter for a booking and
// returns the new value. The counter expires alongside the code.
func (s *OtpStore) IncrementAttempts(ctx context.Context, bookingID string, ttl time.Duration) (int64, error) {
	key := otpAttemptsPrefix + bookingID
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = s.client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// StartCooldown begins the resend cooldown for a booking. Returns false
// if a cooldown is already running.
func (s *OtpStore) StartCooldown(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, otpCooldownPrefix+bookingID, "1", ttl).Result()
}

// CooldownRemaining returns how much of the resend cooldown is left.
// Zero means a resend is allowed.
func (s *OtpStore) CooldownRemaining(ctx context.Context, bookingID string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, otpCooldownPrefix+bookingID).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
