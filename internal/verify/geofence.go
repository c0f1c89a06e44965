package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldverify/internal/domain"
)

const defaultFixTimeout = 30 * time.Second

// DistanceResult is the distance oracle's answer for one coordinate pair.
// The threshold is authoritative from the server; it varies by zone.
type DistanceResult struct {
	DistanceMeters  float64
	ThresholdMeters float64
}

// DistanceChecker submits a technician/customer coordinate pair to the
// distance oracle.
type DistanceChecker interface {
	CheckDistance(ctx context.Context, technician, customer domain.Coordinates) (DistanceResult, error)
}

// GeofenceVerifier confirms the technician is physically near the booking
// address before work may start. It acquires one location fix, asks the
// distance oracle, and classifies the result. It never retries on its own;
// every failure surfaces to the orchestrator.
type GeofenceVerifier struct {
	provider   LocationProvider
	oracle     DistanceChecker
	fixTimeout time.Duration
}

// NewGeofenceVerifier creates a new GeofenceVerifier.
func NewGeofenceVerifier(provider LocationProvider, oracle DistanceChecker) *GeofenceVerifier {
	return &GeofenceVerifier{
		provider:   provider,
		oracle:     oracle,
		fixTimeout: defaultFixTimeout,
	}
}

// SetFixTimeout overrides the location-fix timeout.
func (g *GeofenceVerifier) SetFixTimeout(d time.Duration) {
	if d > 0 {
		g.fixTimeout = d
	}
}

// Verify runs one geofence check against the booking's customer coordinates.
// All failure modes fold into the verdict: a fix timeout, revoked permission
// or unreachable oracle yield UNAVAILABLE (retryable), while a successful
// check outside the threshold yields TOO_FAR (not retryable without moving).
// The boundary is inclusive: distance equal to the threshold is WITHIN_RANGE.
func (g *GeofenceVerifier) Verify(ctx context.Context, customer domain.Coordinates) domain.LocationCheckResult {
	result := domain.LocationCheckResult{Customer: customer}

	if !customer.Valid() {
		result.Verdict = domain.VerdictUnavailable
		result.Reason = "booking address has no valid coordinates"
		return result
	}

	pos, err := g.provider.CurrentPosition(ctx, g.fixTimeout, AccuracyBalanced)
	if err != nil {
		result.Verdict = domain.VerdictUnavailable
		result.Reason = fixFailureReason(err)
		return result
	}

	technician := domain.Coordinates{Lat: pos.Lat, Lng: pos.Lng}
	result.Technician = technician

	oracle, err := g.oracle.CheckDistance(ctx, technician, customer)
	if err != nil {
		result.Verdict = domain.VerdictUnavailable
		result.Reason = fmt.Sprintf("distance service unreachable: %v", err)
		return result
	}

	result.DistanceMeters = oracle.DistanceMeters
	result.ThresholdMeters = oracle.ThresholdMeters

	if oracle.DistanceMeters <= oracle.ThresholdMeters {
		result.Verdict = domain.VerdictWithinRange
		return result
	}

	result.Verdict = domain.VerdictTooFar
	result.Reason = fmt.Sprintf("%.0fm from the booking address (allowed %.0fm)",
		oracle.DistanceMeters, oracle.ThresholdMeters)
	return result
}

func fixFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "location permission revoked"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out waiting for a location fix"
	case errors.Is(err, context.Canceled):
		return "location fix cancelled"
	default:
		return fmt.Sprintf("location fix failed: %v", err)
	}
}
