package mock

import (
	"context"
	"fmt"
	"io"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.FileStorage = (*FileStorage)(nil)

// FileStorage is a mock implementation of weldmark.FileStorage.
type FileStorage struct {
	UploadFn   func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	DownloadFn func(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFn   func(ctx context.Context, key string) error
	GetURLFn   func(key string) string
	ExistsFn   func(ctx context.Context, key string) (bool, error)
}

func (s *FileStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if s.UploadFn != nil {
		return s.UploadFn(ctx, key, reader, contentType)
	}
	return fmt.Sprintf("https://storage.example.com/%s", key), nil
}

func (s *FileStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, key)
	}
	return nil, weldmark.NotFound("File not found")
}

func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, key)
	}
	return nil
}

func (s *FileStorage) GetURL(key string) string {
	if s.GetURLFn != nil {
		return s.GetURLFn(key)
	}
	return fmt.Sprintf("https://storage.example.com/%s", key)
}

func (s *FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, key)
	}
	return false, nil
}
