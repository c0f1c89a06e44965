package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusAccepted   BookingStatus = "ACCEPTED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// Booking represents a confirmed service booking awaiting an on-site start.
type Booking struct {
	ID           string
	CustomerID   string
	TechnicianID string
	Status       BookingStatus
	CustomerLat  float64
	CustomerLng  float64
	AddressLine  string
	ZoneID       string
	CreatedAt    time.Time
	StartedAt    time.Time
	SelfieURI    string // Stored presence image for the started booking
}

// CanStartVerification reports whether a verification session may be
// opened for this booking. Only accepted bookings can be started.
func (b *Booking) CanStartVerification() bool {
	return b.Status == BookingStatusAccepted
}

// ServiceZone holds the geofence threshold for a service area.
// Thresholds vary by zone and are authoritative on the server.
type ServiceZone struct {
	ID              string
	Name            string
	ThresholdMeters float64
}
