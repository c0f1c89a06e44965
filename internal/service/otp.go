package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"fieldverify/internal/domain"
	"fieldverify/internal/redis"
	"fieldverify/internal/repository"
)

const (
	// otpTTL is how long a dispatched code stays valid.
	otpTTL = 5 * time.Minute

	// otpResendCooldown matches the client-side 120-second resend window.
	otpResendCooldown = 120 * time.Second

	// otpMaxAttempts is the failed-attempt budget per dispatched code.
	otpMaxAttempts = 5
)

// OtpService issues start-work OTP codes to customers and checks the
// codes technicians submit. Codes live in Redis and expire on their own.
type OtpService struct {
	bookingRepo         repository.BookingRepository
	otpStore            redis.OtpStoreInterface
	notificationService *NotificationService

	// generate produces one 4-digit code. Swappable for tests.
	generate func() (string, error)
}

// NewOtpService creates a new OtpService.
func NewOtpService(
	bookingRepo repository.BookingRepository,
	otpStore redis.OtpStoreInterface,
	notificationService *NotificationService,
) *OtpService {
	return &OtpService{
		bookingRepo:         bookingRepo,
		otpStore:            otpStore,
		notificationService: notificationService,
		generate:            generateCode,
	}
}

// DispatchRequest contains the parameters for dispatching an OTP.
type DispatchRequest struct {
	BookingID string
}

// Dispatch generates a fresh code for the booking, stores it with its
// expiry and delivers it to the customer. A dispatch during the resend
// cooldown is rejected without generating anything.
func (s *OtpService) Dispatch(ctx context.Context, req DispatchRequest) error {
	if req.BookingID == "" {
		return ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return err
	}

	if !booking.CanStartVerification() {
		return ErrBookingNotAccepted
	}

	ok, err := s.otpStore.StartCooldown(ctx, req.BookingID, otpResendCooldown)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOtpCooldownActive
	}

	code, err := s.generate()
	if err != nil {
		return err
	}

	if err := s.otpStore.StoreCode(ctx, req.BookingID, code, otpTTL); err != nil {
		return err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyOtpDispatched(ctx, booking, code)
	}

	return nil
}

// CheckCode compares a submitted code against the dispatched one. The
// code is consumed on success so it cannot be replayed; repeated failures
// exhaust the attempt budget.
func (s *OtpService) CheckCode(ctx context.Context, bookingID, code string) error {
	if bookingID == "" {
		return ErrInvalidBookingID
	}
	if !validOtpFormat(code) {
		return ErrInvalidOtpFormat
	}

	stored, err := s.otpStore.GetCode(ctx, bookingID)
	if err != nil {
		if errors.Is(err, redis.ErrCodeNotFound) {
			return ErrOtpExpired
		}
		return err
	}

	if stored != code {
		attempts, attemptErr := s.otpStore.IncrementAttempts(ctx, bookingID, otpTTL)
		if attemptErr == nil && attempts >= otpMaxAttempts {
			_ = s.otpStore.ConsumeCode(ctx, bookingID)
			return ErrOtpTooManyAttempts
		}
		return ErrOtpMismatch
	}

	return s.otpStore.ConsumeCode(ctx, bookingID)
}

func validOtpFormat(code string) bool {
	if len(code) != domain.OtpLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// generateCode returns a uniformly random 4-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
