package verify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fieldverify/internal/domain"
)

// VerifyResult is the backend's answer to an OTP + selfie submission.
type VerifyResult struct {
	Success      bool
	Message      string
	BookingState domain.BookingStatus
}

// OtpBackend is the backend surface the OTP challenge talks to: one
// endpoint to dispatch a code to the customer, one multipart endpoint
// that verifies the code together with the presence image and starts
// the booking.
type OtpBackend interface {
	SendOtp(ctx context.Context, bookingID string) (message string, err error)
	VerifyOtp(ctx context.Context, bookingID, code string, image *domain.PresenceImage) (VerifyResult, error)
}

// OtpChallenger owns the client side of the OTP challenge-response:
// the resend cooldown, the four digit-entry slots and the single
// combined verification submission. At most one network request is
// outstanding at any time.
type OtpChallenger struct {
	backend   OtpBackend
	bookingID string

	mu       sync.Mutex
	digits   DigitBuffer
	cd       *cooldown
	inFlight bool
	sentAt   time.Time
}

// NewOtpChallenger creates an OtpChallenger for one booking with the
// default 120-second resend cooldown.
func NewOtpChallenger(backend OtpBackend, bookingID string) *OtpChallenger {
	return &OtpChallenger{
		backend: backend,
		cd:      newCooldown(DefaultResendCooldown, time.Now),

		bookingID: bookingID,
	}
}

// setClock swaps the time source. Tests only.
func (o *OtpChallenger) setClock(now func() time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cd.now = now
}

// Send asks the backend to dispatch an OTP to the customer. While the
// cooldown from a previous successful dispatch is active the call is
// rejected locally and no network request is made. The cooldown starts
// only on successful dispatch.
func (o *OtpChallenger) Send(ctx context.Context) (*domain.OtpChallenge, error) {
	o.mu.Lock()
	if o.cd.Active() {
		o.mu.Unlock()
		return nil, ErrCooldownActive
	}
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	o.inFlight = true
	o.mu.Unlock()

	message, err := o.backend.SendOtp(ctx, o.bookingID)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOtpSendFailed, err)
	}

	o.cd.Start()
	o.sentAt = o.cd.now()

	return &domain.OtpChallenge{
		BookingID: o.bookingID,
		SentAt:    o.sentAt,
		Message:   message,
	}, nil
}

// CooldownRemaining returns how long until Send is allowed again.
func (o *OtpChallenger) CooldownRemaining() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cd.Remaining()
}

// EnterDigit places a digit into the focused slot.
func (o *OtpChallenger) EnterDigit(d byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.digits.Enter(d)
}

// Backspace removes a digit per the slot-focus rules.
func (o *OtpChallenger) Backspace() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.digits.Backspace()
}

// Paste distributes pasted characters across the remaining slots.
func (o *OtpChallenger) Paste(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.digits.Paste(s)
}

// Focus returns the index of the focused entry slot.
func (o *OtpChallenger) Focus() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.digits.Focus()
}

// EnteredDigits returns the number of filled slots.
func (o *OtpChallenger) EnteredDigits() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.digits.Len()
}

// Verify submits the entered code and the presence image as one multipart
// request. Preconditions are checked before any network call: exactly four
// digits entered and a non-nil image, each failing with its own error so
// the user message can distinguish them. On server rejection the digit
// buffer is cleared and focus returns to the first slot; the resend
// cooldown is left untouched.
func (o *OtpChallenger) Verify(ctx context.Context, image *domain.PresenceImage) (VerifyResult, error) {
	o.mu.Lock()
	if !o.digits.Complete() {
		o.mu.Unlock()
		return VerifyResult{}, ErrOtpIncomplete
	}
	if image == nil {
		o.mu.Unlock()
		return VerifyResult{}, ErrMissingSelfie
	}
	if o.inFlight {
		o.mu.Unlock()
		return VerifyResult{}, ErrRequestInFlight
	}
	o.inFlight = true
	code := o.digits.Code()
	o.mu.Unlock()

	result, err := o.backend.VerifyOtp(ctx, o.bookingID, code, image)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false

	if err != nil {
		// Transport failure: the entered code is kept for a clean retry.
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if !result.Success {
		// Wrong or expired code. Clear the buffer, keep the cooldown: a
		// failed verification does not grant an extra resend.
		o.digits.Clear()
		if result.Message != "" {
			return result, fmt.Errorf("%w: %s", ErrOtpInvalid, result.Message)
		}
		return result, ErrOtpInvalid
	}

	return result, nil
}
