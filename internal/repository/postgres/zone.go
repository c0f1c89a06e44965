package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fieldverify/internal/domain"
	"fieldverify/internal/repository"
)

// ZoneRepository is a PostgreSQL implementation of repository.ZoneRepository.
type ZoneRepository struct {
	q Querier
}

// NewZoneRepository creates a new PostgreSQL zone repository.
func NewZoneRepository(db *sql.DB) *ZoneRepository {
	return &ZoneRepository{q: db}
}

// GetByID retrieves a service zone by ID.
func (r *ZoneRepository) GetByID(ctx context.Context, id string) (*domain.ServiceZone, error) {
	query := `
		SELECT id, name, threshold_meters
		FROM service_zones WHERE id = $1
	`

	var zone domain.ServiceZone
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&zone.ID,
		&zone.Name,
		&zone.ThresholdMeters,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &zone, nil
}

// Ensure ZoneRepository implements repository.ZoneRepository.
var _ repository.ZoneRepository = (*ZoneRepository)(nil)
