// Package storage holds the object store behind the rest of the backend.
// Scene originals, rendered outputs, previews and cover thumbnails all live
// at deterministic keys in one bucket.
package storage

import (
	"context"
	"fmt"
	"time"
)

type ObjectStore interface {
	// Put writes data under key, overwriting any previous object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get reads the full object at key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether an object is present at key.
	Exists(ctx context.Context, key string) (bool, error)
	// PresignGet returns a time-limited read URL for key. A non-empty
	// attachmentName asks the store to serve the object as a download with
	// that filename instead of inline.
	PresignGet(ctx context.Context, key string, expires time.Duration, attachmentName string) (string, error)
}

// Object keys are derived from the scene id plus the era and variant labels.
// A repeated render request computes the same key, which is what makes the
// existence check in the render path work as an idempotency guard.

func OriginalKey(sceneID string) string {
	return fmt.Sprintf("scenes/%s/original.jpg", sceneID)
}

func OutputKey(sceneID, era, variant string) string {
	return fmt.Sprintf("scenes/%s/outputs/%s_%s.jpg", sceneID, era, variant)
}

func PreviewKey(sceneID, era, variant string) string {
	return fmt.Sprintf("scenes/%s/outputs/%s_%s_preview.jpg", sceneID, era, variant)
}

func CoverThumbKey(sceneID string, width int) string {
	return fmt.Sprintf("scenes/%s/cover_w%d.jpg", sceneID, width)
}
