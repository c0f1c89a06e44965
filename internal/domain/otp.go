package domain

import "time"

// OtpLength is the number of digits in a start-work OTP. The code is
// issued server-side and relayed verbally by the customer; the client
// never learns it ahead of entry.
const OtpLength = 4

// OtpChallenge tracks the client-side view of one OTP dispatch: when it
// was sent and how much of the resend cooldown remains. The digit buffer
// is tracked separately; resetting one never resets the other.
type OtpChallenge struct {
	BookingID string
	SentAt    time.Time
	Message   string // Server acknowledgement, surfaced to the user
}
