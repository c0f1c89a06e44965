package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SelfieStore writes verified presence images to local disk. One file per
// started booking; the stored path ends up on the booking record.
type SelfieStore struct {
	dir string
}

// NewSelfieStore creates the storage directory if needed.
func NewSelfieStore(dir string) (*SelfieStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create selfie directory: %w", err)
	}
	return &SelfieStore{dir: dir}, nil
}

// Save streams the image to disk and returns its path.
func (s *SelfieStore) Save(bookingID string, r io.Reader, mimeType string) (string, error) {
	name := fmt.Sprintf("%s-%s%s", bookingID, uuid.New().String(), extensionFor(mimeType))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create selfie file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write selfie file: %w", err)
	}

	return path, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
