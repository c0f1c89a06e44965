package redis

import (
	"context"
	"time"
)

// OtpStoreInterface defines the operations for server-side OTP state.
type OtpStoreInterface interface {
	StoreCode(ctx context.Context, bookingID, code string, ttl time.Duration) error
	GetCode(ctx context.Context, bookingID string) (string, error)
	ConsumeCode(ctx context.Context, bookingID string) error
	IncrementAttempts(ctx context.Context, bookingID string, ttl time.Duration) (int64, error)
	StartCooldown(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	CooldownRemaining(ctx context.Context, bookingID string) (time.Duration, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireVerifyLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseVerifyLock(ctx context.Context, bookingID string) error
}

// LocationStoreInterface defines the interface for recording technician
// positions verified during service start.
type LocationStoreInterface interface {
	RecordVerifiedPosition(ctx context.Context, technicianID string, lat, lng float64) error
	VerifiedPosition(ctx context.Context, technicianID string) (*TechnicianPosition, error)
}

// Ensure concrete types implement interfaces.
var (
	_ OtpStoreInterface      = (*OtpStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ LocationStoreInterface = (*LocationStore)(nil)
)
