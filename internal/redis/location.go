package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const verifiedPositionKey = "technicians:verified_positions"

// TechnicianPosition is a technician's recorded position.
type TechnicianPosition struct {
	TechnicianID string
	Lat          float64
	Lng          float64
}

// LocationStore records the position each technician held when their
// presence was verified, for dispatch audit and support tooling.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// RecordVerifiedPosition stores the technician's verified position using GEOADD.
func (s *LocationStore) RecordVerifiedPosition(ctx context.Context, technicianID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, verifiedPositionKey, &redis.GeoLocation{
		Name:      technicianID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// VerifiedPosition returns the last recorded verified position for a
// technician, or nil if none was recorded.
func (s *LocationStore) VerifiedPosition(ctx context.Context, technicianID string) (*TechnicianPosition, error) {
	positions, err := s.client.GeoPos(ctx, verifiedPositionKey, technicianID).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}

	return &TechnicianPosition{
		TechnicianID: technicianID,
		Lat:          positions[0].Latitude,
		Lng:          positions[0].Longitude,
	}, nil
}
