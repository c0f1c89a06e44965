package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"fieldverify/internal/domain"
)

// DefaultAutoAdvanceDelay is the pause between a successful stage and the
// automatic trigger of the next one.
const DefaultAutoAdvanceDelay = 700 * time.Millisecond

// EventType identifies what an orchestrator event reports.
type EventType string

const (
	EventStageChanged     EventType = "STAGE_CHANGED"
	EventModeChanged      EventType = "MODE_CHANGED"
	EventLocationChecked  EventType = "LOCATION_CHECKED"
	EventPresenceCaptured EventType = "PRESENCE_CAPTURED"
	EventOtpSent          EventType = "OTP_SENT"
	EventStageFailed      EventType = "STAGE_FAILED"
	EventOutcome          EventType = "OUTCOME"
	EventCancelled        EventType = "CANCELLED"
)

// Event is one observable state change. Screens subscribe to the event
// stream and render it; they never own verification logic themselves.
type Event struct {
	Type     EventType
	Stage    domain.Stage
	Mode     domain.Mode
	Location *domain.LocationCheckResult
	Outcome  *domain.VerificationOutcome
	Err      error

	// Navigate is set with a TOO_FAR location verdict: the user should be
	// offered directions to the address instead of a retry.
	Navigate bool
}

// Options configures a verification session.
type Options struct {
	Mode             domain.Mode
	AutoAdvanceDelay time.Duration
}

// Orchestrator sequences the three verification stages for one booking:
// geofence check, presence capture, OTP challenge. It owns the session
// exclusively and holds at most one outstanding suspension (location fix,
// camera capture or network call) at any time.
type Orchestrator struct {
	booking  *domain.Booking
	geofence *GeofenceVerifier
	capture  *PresenceCapturer
	otp      *OtpChallenger

	mu        sync.Mutex
	session   *domain.VerificationSession
	image     *domain.PresenceImage
	busy      bool
	destroyed bool
	autoDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
}

// NewOrchestrator creates a verification session for a booking. The
// booking must be in the accepted state; anything else is rejected before
// a session exists.
func NewOrchestrator(booking *domain.Booking, geofence *GeofenceVerifier, capture *PresenceCapturer, otp *OtpChallenger, opts Options) (*Orchestrator, error) {
	if booking == nil || booking.ID == "" {
		return nil, ErrBookingNotAccepted
	}
	if !booking.CanStartVerification() {
		return nil, ErrBookingNotAccepted
	}

	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeManual
	}
	delay := opts.AutoAdvanceDelay
	if delay <= 0 {
		delay = DefaultAutoAdvanceDelay
	}

	return &Orchestrator{
		booking:  booking,
		geofence: geofence,
		capture:  capture,
		otp:      otp,
		session: &domain.VerificationSession{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Stage:     domain.StageIdle,
			Mode:      mode,
			CreatedAt: time.Now(),
		},
		autoDelay: delay,
		events:    make(chan Event, 16),
	}, nil
}

// Events returns the stream of session state changes.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Session returns a snapshot of the current session.
func (o *Orchestrator) Session() domain.VerificationSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *o.session
}

// Otp exposes the OTP challenge component for digit entry.
func (o *Orchestrator) Otp() *OtpChallenger {
	return o.otp
}

// Start opens the session and enters the Location stage. In automatic
// mode the location check is triggered after the auto-advance delay.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.destroyed || o.session.Stage.Terminal() {
		return ErrSessionTerminal
	}
	if o.session.Stage != domain.StageIdle {
		return ErrInvalidStage
	}

	o.ctx, o.cancel = context.WithCancel(ctx)
	o.setStageLocked(domain.StageLocation)
	o.scheduleAutoLocked(func() { _, _ = o.CheckLocation() })
	return nil
}

// CheckLocation runs the geofence stage. WITHIN_RANGE advances to the
// Selfie stage; TOO_FAR and UNAVAILABLE end the session as Failed, with
// automatic mode disabled so recovery is always user-initiated.
func (o *Orchestrator) CheckLocation() (domain.LocationCheckResult, error) {
	o.mu.Lock()
	if err := o.beginStageLocked(domain.StageLocation); err != nil {
		o.mu.Unlock()
		return domain.LocationCheckResult{}, err
	}
	ctx := o.ctx
	customer := domain.Coordinates{Lat: o.booking.CustomerLat, Lng: o.booking.CustomerLng}
	o.mu.Unlock()

	result := o.geofence.Verify(ctx, customer)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false

	// A cancelled session must never observe the eventual result.
	if o.destroyed || ctx.Err() != nil {
		return domain.LocationCheckResult{}, ErrSessionCancelled
	}

	o.emitLocked(Event{
		Type:     EventLocationChecked,
		Location: &result,
		Navigate: result.Verdict == domain.VerdictTooFar,
	})

	switch result.Verdict {
	case domain.VerdictWithinRange:
		o.setStageLocked(domain.StageSelfie)
		o.scheduleAutoLocked(func() { _, _ = o.CapturePresence() })
	default:
		o.downgradeLocked()
		o.failLocked(result.Reason)
	}

	return result, nil
}

// CapturePresence runs the selfie stage. Failures keep the session in the
// Selfie stage since a retake is always available; only the mode is
// downgraded.
func (o *Orchestrator) CapturePresence() (*domain.PresenceImage, error) {
	o.mu.Lock()
	if err := o.beginStageLocked(domain.StageSelfie); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	ctx := o.ctx
	o.mu.Unlock()

	_, err := o.capture.Capture(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false

	if o.destroyed || ctx.Err() != nil {
		o.capture.Discard()
		return nil, ErrSessionCancelled
	}

	if err != nil {
		o.downgradeLocked()
		o.emitLocked(Event{Type: EventStageFailed, Err: err})
		return nil, err
	}

	// Ownership transfers to the session; the capturer holds nothing now.
	o.image = o.capture.Take()
	o.emitLocked(Event{Type: EventPresenceCaptured})
	o.setStageLocked(domain.StageOtp)
	o.scheduleAutoLocked(func() { _, _ = o.SendOtp() })

	return o.image, nil
}

// RetakePresence discards the captured image and returns to the Selfie
// stage for a fresh capture. Only valid before verification succeeds.
func (o *Orchestrator) RetakePresence() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.destroyed || o.session.Stage.Terminal() {
		return ErrSessionTerminal
	}
	if o.busy {
		return ErrRequestInFlight
	}
	if o.session.Stage != domain.StageOtp && o.session.Stage != domain.StageSelfie {
		return ErrInvalidStage
	}

	o.image = nil
	o.capture.Discard()
	if o.session.Stage != domain.StageSelfie {
		o.setStageLocked(domain.StageSelfie)
	}
	return nil
}

// SendOtp dispatches the OTP to the customer. A locally rejected resend
// (cooldown still active) is not a stage failure and does not change the
// mode; backend failures downgrade to manual.
func (o *Orchestrator) SendOtp() (*domain.OtpChallenge, error) {
	o.mu.Lock()
	if err := o.beginStageLocked(domain.StageOtp); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	ctx := o.ctx
	o.mu.Unlock()

	challenge, err := o.otp.Send(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false

	if o.destroyed || ctx.Err() != nil {
		return nil, ErrSessionCancelled
	}

	if err != nil {
		if errors.Is(err, ErrCooldownActive) {
			return nil, err
		}
		o.downgradeLocked()
		o.emitLocked(Event{Type: EventStageFailed, Err: err})
		return nil, err
	}

	o.emitLocked(Event{Type: EventOtpSent})
	return challenge, nil
}

// SubmitVerification submits the entered code and the presence image. A
// successful response is the point of no return: the booking is started
// server-side and the session ends as Done. A rejected code keeps the
// session in the Otp stage with the digit buffer already cleared.
func (o *Orchestrator) SubmitVerification() (*domain.VerificationOutcome, error) {
	o.mu.Lock()
	if err := o.beginStageLocked(domain.StageOtp); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	ctx := o.ctx
	image := o.image
	o.mu.Unlock()

	result, err := o.otp.Verify(ctx, image)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false

	if o.destroyed || ctx.Err() != nil {
		return nil, ErrSessionCancelled
	}

	if err != nil {
		if errors.Is(err, ErrOtpIncomplete) || errors.Is(err, ErrMissingSelfie) {
			// Local precondition, nothing was submitted.
			return nil, err
		}
		o.downgradeLocked()
		o.emitLocked(Event{Type: EventStageFailed, Err: err})
		return nil, err
	}

	outcome := &domain.VerificationOutcome{
		Started:      true,
		BookingState: result.BookingState,
	}
	o.session.Outcome = outcome
	o.setStageLocked(domain.StageDone)
	o.emitLocked(Event{Type: EventOutcome, Outcome: outcome})
	return outcome, nil
}

// Retry replaces a failed session with a fresh one starting from the
// Location stage. This is the only way back into automatic mode after a
// downgrade, and it is always user-triggered.
func (o *Orchestrator) Retry(ctx context.Context, mode domain.Mode) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.destroyed {
		return ErrSessionTerminal
	}
	if o.session.Stage != domain.StageFailed {
		return ErrInvalidStage
	}
	if mode == "" {
		mode = domain.ModeManual
	}

	if o.cancel != nil {
		o.cancel()
	}
	o.image = nil
	o.capture.Discard()

	o.session = &domain.VerificationSession{
		ID:        uuid.New().String(),
		BookingID: o.booking.ID,
		Stage:     domain.StageIdle,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
	o.ctx, o.cancel = context.WithCancel(ctx)
	o.setStageLocked(domain.StageLocation)
	o.scheduleAutoLocked(func() { _, _ = o.CheckLocation() })
	return nil
}

// Cancel discards the session: outstanding work is aborted without its
// result ever surfacing, the camera is released, and no stale timer can
// fire back into the session afterwards.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.destroyed {
		return
	}
	o.destroyed = true
	if o.cancel != nil {
		o.cancel()
	}
	o.image = nil
	o.capture.Discard()

	if !o.session.Stage.Terminal() {
		o.session.Stage = domain.StageIdle
	}

	// Last event, then the stream closes.
	select {
	case o.events <- Event{Type: EventCancelled, Stage: o.session.Stage, Mode: o.session.Mode}:
	default:
	}
	close(o.events)
}

// beginStageLocked guards entry into a stage operation and marks the
// single outstanding suspension.
func (o *Orchestrator) beginStageLocked(stage domain.Stage) error {
	if o.destroyed || o.session.Stage.Terminal() {
		return ErrSessionTerminal
	}
	if o.session.Stage != stage {
		return ErrInvalidStage
	}
	if o.busy {
		return ErrRequestInFlight
	}
	if o.ctx == nil {
		return ErrInvalidStage
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) setStageLocked(stage domain.Stage) {
	o.session.Stage = stage
	o.emitLocked(Event{Type: EventStageChanged})
}

func (o *Orchestrator) downgradeLocked() {
	if o.session.Mode == domain.ModeAutomatic {
		o.session.Mode = domain.ModeManual
		o.emitLocked(Event{Type: EventModeChanged})
	}
}

func (o *Orchestrator) failLocked(reason string) {
	outcome := &domain.VerificationOutcome{Started: false, Reason: reason}
	o.session.Outcome = outcome
	o.session.Stage = domain.StageFailed
	o.emitLocked(Event{Type: EventStageChanged})
	o.emitLocked(Event{Type: EventOutcome, Outcome: outcome})
}

// scheduleAutoLocked triggers the next stage action after the fixed delay
// when the session runs in automatic mode. The scheduled call re-validates
// stage and liveness itself, so a timer that outlives a cancelled or
// advanced session is a no-op.
func (o *Orchestrator) scheduleAutoLocked(step func()) {
	if o.session.Mode != domain.ModeAutomatic {
		return
	}
	ctx := o.ctx
	delay := o.autoDelay
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		step()
	}()
}

func (o *Orchestrator) emitLocked(event Event) {
	if o.destroyed {
		return
	}
	event.Stage = o.session.Stage
	event.Mode = o.session.Mode
	select {
	case o.events <- event:
	default:
		// A slow or absent subscriber never blocks the state machine.
	}
}
