package verify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fieldverify/internal/domain"
)

// ──────────────────────────────────────────────
// FAKE CLOCK
// ──────────────────────────────────────────────

// fakeClock is a manually advanced time source for cooldown tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// ──────────────────────────────────────────────
// MOCK OTP BACKEND
// ──────────────────────────────────────────────

// mockOtpBackend is a mock implementation of OtpBackend.
type mockOtpBackend struct {
	// Counters for verification
	SendCallCount   int32
	VerifyCallCount int32

	// Error injection
	SendError   error
	VerifyError error

	// Canned verify answer
	VerifyAnswer VerifyResult

	// Last submission, for assertions
	mu           sync.Mutex
	LastCode     string
	LastImageURI string

	// Blocks calls until released, for in-flight tests
	Gate chan struct{}
}

func (m *mockOtpBackend) SendOtp(ctx context.Context, bookingID string) (string, error) {
	atomic.AddInt32(&m.SendCallCount, 1)
	if m.Gate != nil {
		<-m.Gate
	}
	if m.SendError != nil {
		return "", m.SendError
	}
	return "verification code sent to customer", nil
}

func (m *mockOtpBackend) VerifyOtp(ctx context.Context, bookingID, code string, image *domain.PresenceImage) (VerifyResult, error) {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	if m.Gate != nil {
		<-m.Gate
	}

	m.mu.Lock()
	m.LastCode = code
	if image != nil {
		m.LastImageURI = image.LocalURI
	}
	m.mu.Unlock()

	if m.VerifyError != nil {
		return VerifyResult{}, m.VerifyError
	}
	return m.VerifyAnswer, nil
}

// ──────────────────────────────────────────────
// MOCK DISTANCE CHECKER
// ──────────────────────────────────────────────

// mockDistanceChecker is a mock implementation of DistanceChecker.
type mockDistanceChecker struct {
	CheckCallCount int32

	CheckError error
	Answer     DistanceResult
}

func (m *mockDistanceChecker) CheckDistance(ctx context.Context, technician, customer domain.Coordinates) (DistanceResult, error) {
	atomic.AddInt32(&m.CheckCallCount, 1)
	if m.CheckError != nil {
		return DistanceResult{}, m.CheckError
	}
	return m.Answer, nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION PROVIDER
// ──────────────────────────────────────────────

// mockLocationProvider is a mock implementation of LocationProvider.
type mockLocationProvider struct {
	FixCallCount int32

	FixError error
	Fix      Position

	// Blocks fixes until released, for in-flight tests
	Gate chan struct{}
}

func (m *mockLocationProvider) CurrentPosition(ctx context.Context, timeout time.Duration, hint AccuracyHint) (Position, error) {
	atomic.AddInt32(&m.FixCallCount, 1)
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
	if m.FixError != nil {
		return Position{}, m.FixError
	}
	return m.Fix, nil
}

// ──────────────────────────────────────────────
// MOCK CAMERA
// ──────────────────────────────────────────────

// mockCamera is a mock implementation of Camera.
type mockCamera struct {
	OpenCallCount int32

	OpenError    error
	CaptureError error

	// Each capture yields a distinct URI so replacement is observable.
	captureSeq int32

	// Counters on the sessions it hands out
	CaptureCallCount int32
	CloseCallCount   int32
}

func (m *mockCamera) Open(ctx context.Context, frontFacing bool) (CameraSession, error) {
	atomic.AddInt32(&m.OpenCallCount, 1)
	if m.OpenError != nil {
		return nil, m.OpenError
	}
	return &mockCameraSession{camera: m}, nil
}

type mockCameraSession struct {
	camera *mockCamera
}

func (s *mockCameraSession) Capture(ctx context.Context) (Frame, error) {
	atomic.AddInt32(&s.camera.CaptureCallCount, 1)
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.camera.CaptureError != nil {
		return Frame{}, s.camera.CaptureError
	}
	n := atomic.AddInt32(&s.camera.captureSeq, 1)
	return Frame{
		URI:      fmt.Sprintf("file:///tmp/presence-%d.jpg", n),
		MimeType: "image/jpeg",
	}, nil
}

func (s *mockCameraSession) Close() error {
	atomic.AddInt32(&s.camera.CloseCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// TEST FIXTURES
// ──────────────────────────────────────────────

func acceptedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          "booking-1",
		CustomerID:  "customer-1",
		Status:      domain.BookingStatusAccepted,
		CustomerLat: 6.5244,
		CustomerLng: 3.3792,
		AddressLine: "12 Adeola Odeku St",
	}
}

func testImage() *domain.PresenceImage {
	return &domain.PresenceImage{
		LocalURI:   "file:///tmp/presence-held.jpg",
		MimeType:   "image/jpeg",
		CapturedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}
