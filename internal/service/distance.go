package service

import (
	"context"
	"errors"
	"math"

	"fieldverify/internal/redis"
	"fieldverify/internal/repository"
)

const earthRadiusMeters = 6371000.0

// DistanceService is the server side of the distance oracle: it computes
// the great-circle distance between technician and customer and resolves
// the authoritative geofence threshold for the zone.
type DistanceService struct {
	zoneRepo         repository.ZoneRepository
	locationStore    redis.LocationStoreInterface
	defaultThreshold float64
}

// NewDistanceService creates a new DistanceService.
func NewDistanceService(zoneRepo repository.ZoneRepository, locationStore redis.LocationStoreInterface, defaultThresholdMeters float64) *DistanceService {
	return &DistanceService{
		zoneRepo:         zoneRepo,
		locationStore:    locationStore,
		defaultThreshold: defaultThresholdMeters,
	}
}

// CheckRequest contains the parameters for a distance check.
type CheckRequest struct {
	TechnicianLat float64
	TechnicianLng float64
	CustomerLat   float64
	CustomerLng   float64
	ZoneID        string // Optional: empty falls back to the default threshold
	TechnicianID  string // Optional: set to record the position when in range
}

// CheckResult contains the computed distance and the threshold to apply.
type CheckResult struct {
	DistanceMeters  float64
	ThresholdMeters float64
	WithinRange     bool
}

// Check computes the distance and classifies it against the zone
// threshold. The boundary is inclusive. When a technician ID is supplied
// and the result is in range, the position is recorded for audit.
func (s *DistanceService) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	if !validLatitude(req.TechnicianLat) || !validLongitude(req.TechnicianLng) ||
		!validLatitude(req.CustomerLat) || !validLongitude(req.CustomerLng) {
		return nil, ErrInvalidCoordinates
	}

	threshold := s.defaultThreshold
	if req.ZoneID != "" {
		zone, err := s.zoneRepo.GetByID(ctx, req.ZoneID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			// Unknown zone keeps the default threshold.
		} else {
			threshold = zone.ThresholdMeters
		}
	}

	distance := haversineMeters(req.TechnicianLat, req.TechnicianLng, req.CustomerLat, req.CustomerLng)
	within := distance <= threshold

	if within && req.TechnicianID != "" && s.locationStore != nil {
		// Audit trail only; a failure here must not fail the check.
		_ = s.locationStore.RecordVerifiedPosition(ctx, req.TechnicianID, req.TechnicianLat, req.TechnicianLng)
	}

	return &CheckResult{
		DistanceMeters:  distance,
		ThresholdMeters: threshold,
		WithinRange:     within,
	}, nil
}

// haversineMeters computes the great-circle distance between two points.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func validLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func validLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
