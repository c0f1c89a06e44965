package service

import "errors"

var (
	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidTechnicianID is returned when technician ID is empty.
	ErrInvalidTechnicianID = errors.New("invalid technician id")

	// ErrInvalidCoordinates is returned when coordinates are outside the
	// valid latitude/longitude range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrBookingNotAccepted is returned when a verification operation is
	// attempted on a booking that is not in the ACCEPTED state.
	ErrBookingNotAccepted = errors.New("booking not in accepted state")

	// ErrOtpCooldownActive is returned when an OTP dispatch is requested
	// while the resend cooldown for the booking is still running.
	ErrOtpCooldownActive = errors.New("otp resend cooldown active")

	// ErrInvalidOtpFormat is returned when the submitted code is not
	// exactly four digits.
	ErrInvalidOtpFormat = errors.New("otp must be four digits")

	// ErrOtpMismatch is returned when the submitted code does not match
	// the dispatched one.
	ErrOtpMismatch = errors.New("otp does not match")

	// ErrOtpExpired is returned when no dispatched code exists for the
	// booking (never sent, expired, or already consumed).
	ErrOtpExpired = errors.New("otp expired or not dispatched")

	// ErrOtpTooManyAttempts is returned when the failed-attempt budget for
	// the dispatched code is exhausted.
	ErrOtpTooManyAttempts = errors.New("too many otp attempts")

	// ErrVerificationInProgress is returned when a verification submission
	// for the booking is already being processed.
	ErrVerificationInProgress = errors.New("verification already in progress")

	// ErrMissingSelfie is returned when the verification request carries
	// no presence image.
	ErrMissingSelfie = errors.New("presence image missing")
)
