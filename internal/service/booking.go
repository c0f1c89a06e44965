package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fieldverify/internal/domain"
	"fieldverify/internal/repository"
)

// BookingService provides the minimal booking operations the verification
// flow needs: registering an accepted booking and reading its state. Full
// booking management lives in a separate system.
type BookingService struct {
	bookingRepo repository.BookingRepository
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepo repository.BookingRepository) *BookingService {
	return &BookingService{bookingRepo: bookingRepo}
}

// CreateBookingRequest contains the parameters for registering a booking.
type CreateBookingRequest struct {
	CustomerID   string
	TechnicianID string
	CustomerLat  float64
	CustomerLng  float64
	AddressLine  string
	ZoneID       string
}

// CreateBooking registers a booking in the ACCEPTED state, ready for
// service-start verification.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if req.TechnicianID == "" {
		return nil, ErrInvalidTechnicianID
	}
	if !validLatitude(req.CustomerLat) || !validLongitude(req.CustomerLng) {
		return nil, ErrInvalidCoordinates
	}

	booking := &domain.Booking{
		ID:           uuid.New().String(),
		CustomerID:   req.CustomerID,
		TechnicianID: req.TechnicianID,
		Status:       domain.BookingStatusAccepted,
		CustomerLat:  req.CustomerLat,
		CustomerLng:  req.CustomerLng,
		AddressLine:  req.AddressLine,
		ZoneID:       req.ZoneID,
		CreatedAt:    time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	return s.bookingRepo.GetByID(ctx, bookingID)
}
