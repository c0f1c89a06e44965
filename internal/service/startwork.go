package service

import (
	"context"
	"database/sql"
	"io"
	"time"

	"fieldverify/internal/domain"
	"fieldverify/internal/redis"
	"fieldverify/internal/repository"
	"fieldverify/internal/repository/postgres"
)

// verifyLockTTL bounds how long a verification submission may hold the
// per-booking lock.
const verifyLockTTL = 30 * time.Second

// StartWorkService handles the point of no return: it checks the OTP,
// stores the presence image and transitions the booking to IN_PROGRESS in
// one pass. The server is the source of truth for booking state; clients
// never mark a booking started locally.
type StartWorkService struct {
	db                  *sql.DB
	bookingRepo         repository.BookingRepository
	otpService          *OtpService
	lockStore           redis.LockStoreInterface
	selfieStore         *SelfieStore
	notificationService *NotificationService
}

// NewStartWorkService creates a new StartWorkService.
func NewStartWorkService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	otpService *OtpService,
	lockStore redis.LockStoreInterface,
	selfieStore *SelfieStore,
	notificationService *NotificationService,
) *StartWorkService {
	return &StartWorkService{
		db:                  db,
		bookingRepo:         bookingRepo,
		otpService:          otpService,
		lockStore:           lockStore,
		selfieStore:         selfieStore,
		notificationService: notificationService,
	}
}

// StartWorkRequest contains the parameters for a verification submission.
type StartWorkRequest struct {
	BookingID      string
	Code           string
	Selfie         io.Reader
	SelfieMimeType string
}

// StartWork verifies the OTP and starts the booking. A per-booking lock
// guarantees at most one submission is processed at a time; a concurrent
// duplicate is rejected before any state changes.
func (s *StartWorkService) StartWork(ctx context.Context, req StartWorkRequest) (*domain.Booking, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.Selfie == nil {
		return nil, ErrMissingSelfie
	}

	locked, err := s.lockStore.AcquireVerifyLock(ctx, req.BookingID, verifyLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrVerificationInProgress
	}
	defer func() {
		_ = s.lockStore.ReleaseVerifyLock(context.WithoutCancel(ctx), req.BookingID)
	}()

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CanStartVerification() {
		return nil, ErrBookingNotAccepted
	}

	// Consumes the code on success; nothing has changed if this fails.
	if err := s.otpService.CheckCode(ctx, req.BookingID, req.Code); err != nil {
		if s.notificationService != nil {
			_ = s.notificationService.NotifyVerificationFailed(ctx, booking, err.Error())
		}
		return nil, err
	}

	selfieURI, err := s.selfieStore.Save(req.BookingID, req.Selfie, req.SelfieMimeType)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

	booking.Status = domain.BookingStatusInProgress
	booking.StartedAt = time.Now()
	booking.SelfieURI = selfieURI

	if err = txBookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyWorkStarted(ctx, booking)
	}

	return booking, nil
}
