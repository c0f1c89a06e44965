package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fieldverify/internal/domain"
	"fieldverify/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, technician_id, status, customer_lat, customer_lng, address_line, zone_id, created_at, started_at, selfie_uri)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var startedAt sql.NullTime
	if !booking.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: booking.StartedAt, Valid: true}
	}

	var selfieURI sql.NullString
	if booking.SelfieURI != "" {
		selfieURI = sql.NullString{String: booking.SelfieURI, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.TechnicianID,
		booking.Status,
		booking.CustomerLat,
		booking.CustomerLng,
		booking.AddressLine,
		booking.ZoneID,
		booking.CreatedAt,
		startedAt,
		selfieURI,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, customer_id, technician_id, status, customer_lat, customer_lng, address_line, zone_id, created_at, started_at, selfie_uri
		FROM bookings WHERE id = $1
	`

	var booking domain.Booking
	var startedAt sql.NullTime
	var selfieURI sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.TechnicianID,
		&booking.Status,
		&booking.CustomerLat,
		&booking.CustomerLng,
		&booking.AddressLine,
		&booking.ZoneID,
		&booking.CreatedAt,
		&startedAt,
		&selfieURI,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if startedAt.Valid {
		booking.StartedAt = startedAt.Time
	}
	if selfieURI.Valid {
		booking.SelfieURI = selfieURI.String
	}

	return &booking, nil
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET customer_id = $1, technician_id = $2, status = $3, customer_lat = $4, customer_lng = $5, address_line = $6, zone_id = $7, started_at = $8, selfie_uri = $9
		WHERE id = $10
	`

	var startedAt sql.NullTime
	if !booking.StartedAt.IsZero() {
		startedAt = sql.NullTime{Time: booking.StartedAt, Valid: true}
	}

	var selfieURI sql.NullString
	if booking.SelfieURI != "" {
		selfieURI = sql.NullString{String: booking.SelfieURI, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		booking.CustomerID,
		booking.TechnicianID,
		booking.Status,
		booking.CustomerLat,
		booking.CustomerLng,
		booking.AddressLine,
		booking.ZoneID,
		startedAt,
		selfieURI,
		booking.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
