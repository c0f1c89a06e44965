package verify

import "errors"

var (
	// ErrPermissionDenied is returned when a device permission (location or
	// camera) has been revoked mid-flow.
	ErrPermissionDenied = errors.New("device permission denied")

	// ErrCameraUnavailable is returned when the camera device cannot be opened.
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrCaptureCancelled is returned when the user backs out before a photo
	// is taken. No image is produced.
	ErrCaptureCancelled = errors.New("capture cancelled")

	// ErrCooldownActive is returned when an OTP resend is requested while the
	// previous dispatch is still cooling down. No network call is made.
	ErrCooldownActive = errors.New("otp resend cooldown active")

	// ErrOtpSendFailed is returned when the backend rejects or fails an OTP
	// dispatch request.
	ErrOtpSendFailed = errors.New("otp send failed")

	// ErrOtpIncomplete is returned when verify is attempted with fewer than
	// four digits entered. Checked before any network call.
	ErrOtpIncomplete = errors.New("otp incomplete")

	// ErrMissingSelfie is returned when verify is attempted without a
	// presence image. Checked before any network call.
	ErrMissingSelfie = errors.New("presence image missing")

	// ErrOtpInvalid is returned when the server rejects the submitted code.
	ErrOtpInvalid = errors.New("otp invalid")

	// ErrRequestInFlight is returned when a second network submission is
	// attempted while one is outstanding for the session.
	ErrRequestInFlight = errors.New("request already in flight")

	// ErrNetwork is returned when a backend call fails in transit.
	ErrNetwork = errors.New("network error")

	// ErrBookingNotAccepted is returned when a session is opened for a
	// booking that is not in the accepted state.
	ErrBookingNotAccepted = errors.New("booking not in accepted state")

	// ErrSessionTerminal is returned when an operation is invoked on a
	// session that already reached Done or Failed.
	ErrSessionTerminal = errors.New("session already terminal")

	// ErrSessionCancelled is returned when the session was cancelled while
	// an operation was outstanding.
	ErrSessionCancelled = errors.New("session cancelled")

	// ErrInvalidStage is returned when an operation does not match the
	// session's current stage.
	ErrInvalidStage = errors.New("operation not valid in current stage")

	// ErrInvalidDigit is returned when a non-digit character is entered
	// into the OTP buffer.
	ErrInvalidDigit = errors.New("invalid digit")
)
