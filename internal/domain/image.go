package domain

import "time"

// PresenceImage is a live-captured photo used as soft proof that the
// technician is on-site. Exactly one live instance exists per session:
// a retake replaces the previous image, it never appends. Ownership
// transfers to the OTP challenge on hand-off; the producer must not
// reuse or mutate it afterwards.
type PresenceImage struct {
	LocalURI   string
	MimeType   string
	CapturedAt time.Time
}
