package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fieldverify/internal/domain"
)

// PresenceCapturer drives the front-facing camera to produce exactly one
// still image per attempt. At most one unconsumed image exists at a time:
// a new capture discards the previous image first, and a retake never
// accumulates a gallery of shots.
type PresenceCapturer struct {
	camera Camera

	mu   sync.Mutex
	held *domain.PresenceImage

	now func() time.Time
}

// NewPresenceCapturer creates a new PresenceCapturer.
func NewPresenceCapturer(camera Camera) *PresenceCapturer {
	return &PresenceCapturer{
		camera: camera,
		now:    time.Now,
	}
}

// Capture opens one front-facing camera session, takes a single photo and
// holds it. The camera session is released on every exit path. Cancelling
// before the photo resolves yields ErrCaptureCancelled and no image.
func (c *PresenceCapturer) Capture(ctx context.Context) (*domain.PresenceImage, error) {
	// Replace, never append.
	c.Discard()

	session, err := c.camera.Open(ctx, true)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer session.Close()

	frame, err := session.Capture(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrCaptureCancelled) {
			return nil, ErrCaptureCancelled
		}
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	image := &domain.PresenceImage{
		LocalURI:   frame.URI,
		MimeType:   frame.MimeType,
		CapturedAt: c.now(),
	}

	c.mu.Lock()
	c.held = image
	c.mu.Unlock()

	return image, nil
}

// Held returns the currently held image, or nil.
func (c *PresenceCapturer) Held() *domain.PresenceImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}

// Take hands the held image to the caller and clears it. Ownership
// transfers: the capturer will not reuse or mutate the image afterwards.
func (c *PresenceCapturer) Take() *domain.PresenceImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	image := c.held
	c.held = nil
	return image
}

// Discard drops the held image, if any.
func (c *PresenceCapturer) Discard() {
	c.mu.Lock()
	c.held = nil
	c.mu.Unlock()
}
