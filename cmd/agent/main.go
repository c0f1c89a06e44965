// Command agent drives a full service-start verification against a running
// backend, standing in for the technician's mobile app. Location fixes and
// camera captures are simulated so the whole flow can run on a laptop; the
// OTP is read from stdin (the demo backend logs the dispatched code).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldverify/internal/client"
	"fieldverify/internal/domain"
	"fieldverify/internal/verify"
)

func main() {
	var (
		serverURL = flag.String("server", envOr("AGENT_SERVER_URL", "http://localhost:8080"), "backend base URL")
		bookingID = flag.String("booking", os.Getenv("AGENT_BOOKING_ID"), "booking to verify (created on the fly when empty)")
		lat       = flag.Float64("lat", 6.5244, "simulated technician latitude")
		lng       = flag.Float64("lng", 3.3792, "simulated technician longitude")
		manual    = flag.Bool("manual", false, "disable automatic stage advancement")
	)
	flag.Parse()

	ctx := context.Background()

	bookings := client.NewBookingClient(*serverURL)
	booking, err := resolveBooking(ctx, bookings, *bookingID, *lat, *lng)
	if err != nil {
		log.Fatalf("failed to resolve booking: %v", err)
	}
	log.Printf("verifying booking %s (%s) at %s", booking.ID, booking.Status, booking.AddressLine)

	distances := client.NewDistanceClient(*serverURL)
	distances.SetBookingContext(booking.ZoneID, booking.TechnicianID)

	geofence := verify.NewGeofenceVerifier(
		&simLocationProvider{lat: *lat, lng: *lng},
		distances,
	)
	capture := verify.NewPresenceCapturer(&simCamera{})
	challenger := verify.NewOtpChallenger(client.NewOtpClient(*serverURL), booking.ID)

	mode := domain.ModeAutomatic
	if *manual {
		mode = domain.ModeManual
	}

	orch, err := verify.NewOrchestrator(booking, geofence, capture, challenger, verify.Options{Mode: mode})
	if err != nil {
		log.Fatalf("failed to open verification session: %v", err)
	}
	defer orch.Cancel()

	if err := orch.Start(ctx); err != nil {
		log.Fatalf("failed to start verification: %v", err)
	}

	if err := run(ctx, orch, mode); err != nil {
		log.Fatalf("verification failed: %v", err)
	}
}

// run consumes orchestrator events until the session reaches an outcome.
// In manual mode each stage is triggered here; in automatic mode the
// orchestrator advances itself and only the OTP entry needs the operator.
func run(ctx context.Context, orch *verify.Orchestrator, mode domain.Mode) error {
	if mode == domain.ModeManual {
		if _, err := orch.CheckLocation(); err != nil {
			return err
		}
	}

	stdin := bufio.NewReader(os.Stdin)

	for event := range orch.Events() {
		switch event.Type {
		case verify.EventStageChanged:
			log.Printf("stage: %s", event.Stage)
			if mode == domain.ModeManual {
				switch event.Stage {
				case domain.StageSelfie:
					if _, err := orch.CapturePresence(); err != nil {
						return err
					}
				case domain.StageOtp:
					if _, err := orch.SendOtp(); err != nil {
						return err
					}
				}
			}

		case verify.EventModeChanged:
			log.Printf("mode: %s", event.Mode)

		case verify.EventLocationChecked:
			loc := event.Location
			log.Printf("location: %s (%.0fm of %.0fm allowed)",
				loc.Verdict, loc.DistanceMeters, loc.ThresholdMeters)
			if event.Navigate {
				log.Printf("too far from the booking address; directions offered instead of retry")
			}

		case verify.EventPresenceCaptured:
			log.Printf("presence photo captured")

		case verify.EventOtpSent:
			log.Printf("verification code sent to the customer")
			if err := submitCode(orch, stdin); err != nil {
				return err
			}

		case verify.EventStageFailed:
			log.Printf("stage failed: %v", event.Err)

		case verify.EventOutcome:
			if event.Outcome.Started {
				log.Printf("work started, booking is now %s", event.Outcome.BookingState)
				return nil
			}
			return errors.New(event.Outcome.Reason)

		case verify.EventCancelled:
			return errors.New("session cancelled")
		}
	}

	return errors.New("event stream closed without an outcome")
}

// submitCode prompts for the 4-digit code and submits until the backend
// accepts it or something other than a wrong code goes wrong.
func submitCode(orch *verify.Orchestrator, stdin *bufio.Reader) error {
	for {
		fmt.Fprintf(os.Stderr, "enter the %d-digit code (check the server log): ", domain.OtpLength)
		line, err := stdin.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}

		otp := orch.Otp()
		otp.Paste(strings.TrimSpace(line))
		if otp.EnteredDigits() < domain.OtpLength {
			log.Printf("need exactly %d digits, got %d", domain.OtpLength, otp.EnteredDigits())
			continue
		}

		_, err = orch.SubmitVerification()
		switch {
		case err == nil:
			// Outcome event follows.
			return nil
		case errors.Is(err, verify.ErrOtpInvalid):
			log.Printf("code rejected: %v", err)
		default:
			return err
		}
	}
}

// resolveBooking fetches the booking, or creates a demo one near the
// simulated position when no ID was given.
func resolveBooking(ctx context.Context, bookings *client.BookingClient, bookingID string, lat, lng float64) (*domain.Booking, error) {
	if bookingID != "" {
		return bookings.GetBooking(ctx, bookingID)
	}

	return bookings.CreateBooking(ctx, client.CreateBookingRequest{
		CustomerID:   "demo-customer",
		TechnicianID: "demo-technician",
		CustomerLat:  lat,
		CustomerLng:  lng,
		AddressLine:  "12 Demo Close",
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// simLocationProvider reports a fixed position after a short delay, the
// way a warm GPS fix would arrive.
type simLocationProvider struct {
	lat, lng float64
}

func (p *simLocationProvider) CurrentPosition(ctx context.Context, timeout time.Duration, _ verify.AccuracyHint) (verify.Position, error) {
	fixCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-fixCtx.Done():
		return verify.Position{}, fixCtx.Err()
	case <-time.After(200 * time.Millisecond):
	}

	return verify.Position{Lat: p.lat, Lng: p.lng, AccuracyM: 8}, nil
}

// simCamera writes a placeholder JPEG to a temp file per capture.
type simCamera struct{}

func (c *simCamera) Open(ctx context.Context, frontFacing bool) (verify.CameraSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &simCameraSession{}, nil
}

type simCameraSession struct{}

// jpegStub is a syntactically framed JPEG payload (SOI ... EOI). The demo
// backend stores the file as-is and never decodes it.
var jpegStub = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00,
	0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xFF, 0xD9,
}

func (s *simCameraSession) Capture(ctx context.Context) (verify.Frame, error) {
	if err := ctx.Err(); err != nil {
		return verify.Frame{}, err
	}

	f, err := os.CreateTemp("", "presence-*.jpg")
	if err != nil {
		return verify.Frame{}, fmt.Errorf("failed to create capture file: %w", err)
	}
	if _, err := f.Write(jpegStub); err != nil {
		f.Close()
		os.Remove(f.Name())
		return verify.Frame{}, fmt.Errorf("failed to write capture file: %w", err)
	}
	if err := f.Close(); err != nil {
		return verify.Frame{}, fmt.Errorf("failed to close capture file: %w", err)
	}

	return verify.Frame{
		URI:      filepath.ToSlash(f.Name()),
		MimeType: "image/jpeg",
	}, nil
}

func (s *simCameraSession) Close() error {
	return nil
}
