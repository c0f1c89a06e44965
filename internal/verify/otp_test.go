package verify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// ──────────────────────────────────────────────
// OTP DISPATCH & RESEND COOLDOWN
// ──────────────────────────────────────────────

func TestOtpChallenger_Send_StartsCooldown(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{}
	clock := newFakeClock()
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.setClock(clock.Now)

	challenge, err := challenger.Send(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if challenge.BookingID != "booking-1" {
		t.Errorf("expected booking-1, got %s", challenge.BookingID)
	}
	if backend.SendCallCount != 1 {
		t.Errorf("expected 1 send call, got %d", backend.SendCallCount)
	}
	if challenger.CooldownRemaining() != DefaultResendCooldown {
		t.Errorf("expected full cooldown, got %v", challenger.CooldownRemaining())
	}
}

func TestOtpChallenger_ResendAt119Seconds_RejectedLocally(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{}
	clock := newFakeClock()
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.setClock(clock.Now)

	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(119 * time.Second)

	_, err := challenger.Send(context.Background())
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("expected ErrCooldownActive, got %v", err)
	}
	// Rejected before any network call.
	if backend.SendCallCount != 1 {
		t.Errorf("expected 1 send call, got %d", backend.SendCallCount)
	}
}

func TestOtpChallenger_ResendAt121Seconds_Accepted(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{}
	clock := newFakeClock()
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.setClock(clock.Now)

	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(121 * time.Second)

	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("expected resend to succeed, got %v", err)
	}
	if backend.SendCallCount != 2 {
		t.Errorf("expected 2 send calls, got %d", backend.SendCallCount)
	}
}

func TestOtpChallenger_ResendAtExactly120Seconds_Accepted(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{}
	clock := newFakeClock()
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.setClock(clock.Now)

	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(DefaultResendCooldown)

	if challenger.CooldownRemaining() != 0 {
		t.Errorf("expected cooldown expired, got %v", challenger.CooldownRemaining())
	}
	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("expected resend to succeed, got %v", err)
	}
}

func TestOtpChallenger_SendFailure_CooldownNotStarted(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{SendError: errors.New("dispatch queue down")}
	clock := newFakeClock()
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.setClock(clock.Now)

	_, err := challenger.Send(context.Background())
	if !errors.Is(err, ErrOtpSendFailed) {
		t.Fatalf("expected ErrOtpSendFailed, got %v", err)
	}

	// A failed dispatch must not start the cooldown; retry is immediate.
	if challenger.CooldownRemaining() != 0 {
		t.Errorf("expected no cooldown, got %v", challenger.CooldownRemaining())
	}

	backend.SendError = nil
	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("expected immediate retry to succeed, got %v", err)
	}
}

// ──────────────────────────────────────────────
// VERIFY SUBMISSION
// ──────────────────────────────────────────────

func TestOtpChallenger_VerifyWithThreeDigits_FailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{}
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.Paste("123")

	_, err := challenger.Verify(context.Background(), testImage())
	if !errors.Is(err, ErrOtpIncomplete) {
		t.Fatalf("expected ErrOtpIncomplete, got %v", err)
	}
	if backend.VerifyCallCount != 0 {
		t.Errorf("expected no verify calls, got %d", backend.VerifyCallCount)
	}
}

func TestOtpChallenger_VerifyWithoutImage_FailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{}
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.Paste("1234")

	_, err := challenger.Verify(context.Background(), nil)
	if !errors.Is(err, ErrMissingSelfie) {
		t.Fatalf("expected ErrMissingSelfie, got %v", err)
	}
	if backend.VerifyCallCount != 0 {
		t.Errorf("expected no verify calls, got %d", backend.VerifyCallCount)
	}
}

func TestOtpChallenger_VerifySuccess_SubmitsCodeAndImage(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{
		VerifyAnswer: VerifyResult{Success: true, BookingState: "IN_PROGRESS"},
	}
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.Paste("4711")

	result, err := challenger.Verify(context.Background(), testImage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if backend.LastCode != "4711" {
		t.Errorf("expected submitted code 4711, got %s", backend.LastCode)
	}
	if backend.LastImageURI != testImage().LocalURI {
		t.Errorf("expected image %s, got %s", testImage().LocalURI, backend.LastImageURI)
	}
}

func TestOtpChallenger_VerifyRejected_ClearsDigitsKeepsCooldown(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{
		VerifyAnswer: VerifyResult{Success: false, Message: "wrong code"},
	}
	clock := newFakeClock()
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.setClock(clock.Now)

	if _, err := challenger.Send(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(30 * time.Second)

	challenger.Paste("9999")
	_, err := challenger.Verify(context.Background(), testImage())
	if !errors.Is(err, ErrOtpInvalid) {
		t.Fatalf("expected ErrOtpInvalid, got %v", err)
	}

	// Buffer cleared, focus back on the first slot.
	if challenger.EnteredDigits() != 0 {
		t.Errorf("expected cleared buffer, got %d digits", challenger.EnteredDigits())
	}
	if challenger.Focus() != 0 {
		t.Errorf("expected focus 0, got %d", challenger.Focus())
	}

	// Cooldown untouched: a failed verification grants no extra resend.
	want := DefaultResendCooldown - 30*time.Second
	if challenger.CooldownRemaining() != want {
		t.Errorf("expected cooldown %v, got %v", want, challenger.CooldownRemaining())
	}
}

func TestOtpChallenger_VerifyTransportError_KeepsDigits(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{VerifyError: errors.New("connection reset")}
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.Paste("4711")

	_, err := challenger.Verify(context.Background(), testImage())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}

	// The entered code survives a transport failure for a clean retry.
	if challenger.EnteredDigits() != 4 {
		t.Errorf("expected 4 digits kept, got %d", challenger.EnteredDigits())
	}
}

func TestOtpChallenger_SecondVerifyWhileInFlight_Rejected(t *testing.T) {
	t.Parallel()

	backend := &mockOtpBackend{
		Gate:         make(chan struct{}),
		VerifyAnswer: VerifyResult{Success: true},
	}
	challenger := NewOtpChallenger(backend, "booking-1")
	challenger.Paste("4711")

	done := make(chan error, 1)
	go func() {
		_, err := challenger.Verify(context.Background(), testImage())
		done <- err
	}()

	// Wait for the first submission to reach the backend.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&backend.VerifyCallCount) == 0 {
		select {
		case <-deadline:
			t.Fatal("first verify never reached the backend")
		case <-time.After(5 * time.Millisecond):
		}
	}

	_, err := challenger.Verify(context.Background(), testImage())
	if !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}

	close(backend.Gate)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from first verify: %v", err)
	}
	if backend.VerifyCallCount != 1 {
		t.Errorf("expected exactly 1 verify call, got %d", backend.VerifyCallCount)
	}
}
