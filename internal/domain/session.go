package domain

import "time"

// Stage represents the current stage of a verification session.
type Stage string

const (
	StageIdle     Stage = "IDLE"
	StageLocation Stage = "LOCATION"
	StageSelfie   Stage = "SELFIE"
	StageOtp      Stage = "OTP"
	StageDone     Stage = "DONE"
	StageFailed   Stage = "FAILED"
)

// Terminal reports whether the stage ends the session.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Mode selects how the orchestrator advances between stages.
type Mode string

const (
	// ModeAutomatic auto-triggers the next stage after each success.
	ModeAutomatic Mode = "AUTOMATIC"

	// ModeManual requires an explicit user action for every transition.
	ModeManual Mode = "MANUAL"
)

// VerificationSession identifies one attempt to start a specific booking.
// It is owned exclusively by the orchestrator: created when the flow is
// entered, destroyed on cancel or on a terminal outcome. A session is
// unusable after a terminal outcome; retrying requires a new session.
type VerificationSession struct {
	ID        string
	BookingID string
	Stage     Stage
	Mode      Mode
	CreatedAt time.Time
	Outcome   *VerificationOutcome // Set once the session is terminal
}

// VerificationOutcome is the terminal value of a session.
type VerificationOutcome struct {
	Started      bool
	Reason       string        // Failure reason when Started is false
	BookingState BookingStatus // Server-reported state after verify
}
