// Package storage keeps exercise demo videos in an S3 compatible bucket.
package storage

//go:generate mockgen -destination=mocks/file_storage.go -package=mocks fitcoach/api/internal/storage FileStorage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long an upload or download link works.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the object storage operations the API needs.
// Clients move the bytes themselves through presigned URLs.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL accepting a PUT of objectKey.
	// The uploader must send the same Content-Type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL for a GET of objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}
