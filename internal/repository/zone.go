package repository

import (
	"context"

	"fieldverify/internal/domain"
)

// ZoneRepository defines lookup operations for service zones. Each zone
// carries its own geofence threshold.
type ZoneRepository interface {
	// GetByID retrieves a service zone by ID.
	GetByID(ctx context.Context, id string) (*domain.ServiceZone, error)
}
