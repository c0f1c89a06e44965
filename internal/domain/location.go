package domain

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinates are inside the WGS84 range and
// not the (0,0) null island placeholder a broken geocode leaves behind.
func (c Coordinates) Valid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LocationVerdict classifies the outcome of a geofence check.
type LocationVerdict string

const (
	// VerdictWithinRange means the technician is inside the geofence.
	VerdictWithinRange LocationVerdict = "WITHIN_RANGE"

	// VerdictTooFar means the fix succeeded but the technician is outside
	// the geofence. Not retryable without physically moving.
	VerdictTooFar LocationVerdict = "TOO_FAR"

	// VerdictUnavailable means the check could not be completed (no fix,
	// permission revoked, oracle unreachable). Retryable.
	VerdictUnavailable LocationVerdict = "UNAVAILABLE"
)

// LocationCheckResult is the outcome of one geofence verification.
// Produced by the geofence verifier and consumed immediately by the
// orchestrator; it is not persisted beyond the session.
type LocationCheckResult struct {
	Technician      Coordinates
	Customer        Coordinates
	DistanceMeters  float64
	ThresholdMeters float64
	Verdict         LocationVerdict
	Reason          string // Human-readable detail for UNAVAILABLE / TOO_FAR
}
