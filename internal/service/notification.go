package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"fieldverify/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationOtpDispatched      NotificationType = "OTP_DISPATCHED"
	NotificationWorkStarted        NotificationType = "WORK_STARTED"
	NotificationVerificationFailed NotificationType = "VERIFICATION_FAILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - SMS client (Twilio) for the OTP itself
	// - Push notification client (FCM, APNS)
	// - WebSocket connections for real-time booking updates
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyOtpDispatched delivers the start-work code to the customer. The
// customer relays it verbally to the technician; it is never sent to the
// technician's device.
func (s *NotificationService) NotifyOtpDispatched(ctx context.Context, booking *domain.Booking, code string) error {
	notification := Notification{
		Type:        NotificationOtpDispatched,
		RecipientID: booking.CustomerID,
		Title:       "Service Start Code",
		Message:     fmt.Sprintf("Share code %s with your technician to start the service", code),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyWorkStarted tells the customer their booking is now in progress.
func (s *NotificationService) NotifyWorkStarted(ctx context.Context, booking *domain.Booking) error {
	notification := Notification{
		Type:        NotificationWorkStarted,
		RecipientID: booking.CustomerID,
		Title:       "Service Started",
		Message:     "Your technician has verified their presence and started the service",
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"started_at": booking.StartedAt,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyVerificationFailed tells the customer a start attempt was rejected.
func (s *NotificationService) NotifyVerificationFailed(ctx context.Context, booking *domain.Booking, reason string) error {
	notification := Notification{
		Type:        NotificationVerificationFailed,
		RecipientID: booking.CustomerID,
		Title:       "Verification Failed",
		Message:     fmt.Sprintf("A service start attempt failed: %s", reason),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"reason":     reason,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
