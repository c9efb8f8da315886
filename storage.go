package weldmark

import (
	"context"
	"io"
)

// FileStorage defines operations for file storage.
type FileStorage interface {
	// Upload uploads a file and returns its URL.
	// The key is the storage path/identifier for the file.
	// The contentType should be a valid MIME type (e.g., "image/jpeg").
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (url string, err error)

	// Download opens the stored file for reading. The caller must close it.
	// Returns ENOTFOUND if the file does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file from storage.
	// Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored file.
	GetURL(key string) string

	// Exists checks if a file exists in storage.
	Exists(ctx context.Context, key string) (bool, error)
}

// StorageConfig holds configuration for file storage.
type StorageConfig struct {
	// Provider is the storage provider ("local" or "s3").
	Provider string

	// Local storage configuration
	LocalPath string
	LocalURL  string

	// S3 storage configuration
	S3Bucket  string
	S3Region  string
	S3BaseURL string
}

// AcceptedUploadTypes lists the content types accepted for photo uploads.
// This is the transport-level gate; the quality validator judges the decoded
// metadata separately.
var AcceptedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/tiff",
}

// MaxUploadSize is the maximum allowed upload size, matching the quality
// standard's file-size ceiling.
const MaxUploadSize = MaxFileSize

// IsAcceptedUploadType checks if a content type is accepted.
func IsAcceptedUploadType(contentType string) bool {
	for _, t := range AcceptedUploadTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
