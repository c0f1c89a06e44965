package verify

import (
	"context"
	"time"
)

// AccuracyHint tells the location provider how hard to work for a fix.
type AccuracyHint string

const (
	// AccuracyBalanced trades precision for a fast fix. The geofence check
	// uses this to avoid blocking indefinitely on poor GPS signal.
	AccuracyBalanced AccuracyHint = "BALANCED"

	// AccuracyHigh requests the best available fix.
	AccuracyHigh AccuracyHint = "HIGH"
)

// Position is a single location fix.
type Position struct {
	Lat       float64
	Lng       float64
	AccuracyM float64
}

// LocationProvider acquires a single current-position fix. Implementations
// must honour the timeout and return ErrPermissionDenied if location
// permission has been revoked.
type LocationProvider interface {
	CurrentPosition(ctx context.Context, timeout time.Duration, hint AccuracyHint) (Position, error)
}

// Frame is one still image produced by a camera session.
type Frame struct {
	URI      string
	MimeType string
}

// CameraSession is an open, exclusive handle on the camera device.
// Close must be safe to call on every exit path.
type CameraSession interface {
	Capture(ctx context.Context) (Frame, error)
	Close() error
}

// Camera opens camera sessions. The device is exclusive; callers must
// close a session before anything else may use the camera.
type Camera interface {
	Open(ctx context.Context, frontFacing bool) (CameraSession, error)
}
