package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fieldverify/internal/domain"
	"fieldverify/internal/redis"
	"fieldverify/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	GetError    error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = booking
	return nil
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// MOCK ZONE REPOSITORY
// ──────────────────────────────────────────────

// MockZoneRepository is a mock implementation of ZoneRepository.
type MockZoneRepository struct {
	mu    sync.RWMutex
	zones map[string]*domain.ServiceZone

	GetCallCount int32
	GetError     error
}

// NewMockZoneRepository creates a new mock zone repository.
func NewMockZoneRepository() *MockZoneRepository {
	return &MockZoneRepository{
		zones: make(map[string]*domain.ServiceZone),
	}
}

// AddZone adds a zone to the mock repository.
func (m *MockZoneRepository) AddZone(zone *domain.ServiceZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[zone.ID] = zone
}

func (m *MockZoneRepository) GetByID(ctx context.Context, id string) (*domain.ServiceZone, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	zone, ok := m.zones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *zone
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK OTP STORE
// ──────────────────────────────────────────────

// MockOtpStore is an in-memory implementation of OtpStoreInterface.
type MockOtpStore struct {
	mu        sync.Mutex
	codes     map[string]string
	attempts  map[string]int64
	cooldowns map[string]time.Time

	// Counters
	StoreCallCount   int32
	ConsumeCallCount int32

	// Error injection
	StoreError error
	GetError   error
}

// NewMockOtpStore creates a new mock OTP store.
func NewMockOtpStore() *MockOtpStore {
	return &MockOtpStore{
		codes:     make(map[string]string),
		attempts:  make(map[string]int64),
		cooldowns: make(map[string]time.Time),
	}
}

func (m *MockOtpStore) StoreCode(ctx context.Context, bookingID, code string, ttl time.Duration) error {
	atomic.AddInt32(&m.StoreCallCount, 1)
	if m.StoreError != nil {
		return m.StoreError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[bookingID] = code
	delete(m.attempts, bookingID)
	return nil
}

func (m *MockOtpStore) GetCode(ctx context.Context, bookingID string) (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[bookingID]
	if !ok {
		return "", redis.ErrCodeNotFound
	}
	return code, nil
}

func (m *MockOtpStore) ConsumeCode(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ConsumeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, bookingID)
	delete(m.attempts, bookingID)
	return nil
}

func (m *MockOtpStore) IncrementAttempts(ctx context.Context, bookingID string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[bookingID]++
	return m.attempts[bookingID], nil
}

func (m *MockOtpStore) StartCooldown(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, exists := m.cooldowns[bookingID]; exists && time.Now().Before(expiry) {
		return false, nil
	}
	m.cooldowns[bookingID] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockOtpStore) CooldownRemaining(ctx context.Context, bookingID string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.cooldowns[bookingID]
	if !exists {
		return 0, nil
	}
	remaining := time.Until(expiry)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// StoredCode returns the stored code for assertions.
func (m *MockOtpStore) StoredCode(bookingID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[bookingID]
}

// ClearCooldown removes a cooldown (for test setup).
func (m *MockOtpStore) ClearCooldown(bookingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cooldowns, bookingID)
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.Mutex
	positions map[string]redis.TechnicianPosition

	RecordCallCount int32
	RecordError     error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		positions: make(map[string]redis.TechnicianPosition),
	}
}

func (m *MockLocationStore) RecordVerifiedPosition(ctx context.Context, technicianID string, lat, lng float64) error {
	atomic.AddInt32(&m.RecordCallCount, 1)
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[technicianID] = redis.TechnicianPosition{
		TechnicianID: technicianID,
		Lat:          lat,
		Lng:          lng,
	}
	return nil
}

func (m *MockLocationStore) VerifiedPosition(ctx context.Context, technicianID string) (*redis.TechnicianPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[technicianID]
	if !ok {
		return nil, nil
	}
	copy := pos
	return &copy, nil
}

// HasPosition reports whether a position was recorded.
func (m *MockLocationStore) HasPosition(technicianID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.positions[technicianID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError        error
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireVerifyLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, exists := m.locks[bookingID]; exists && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[bookingID] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseVerifyLock(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, bookingID)
	return nil
}

// IsLocked reports whether the booking is locked.
func (m *MockLockStore) IsLocked(bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[bookingID]
	return exists && time.Now().Before(expiry)
}
