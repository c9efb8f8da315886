package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dukerupert/weldmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	url, err := s.Upload(ctx, "photos/order-1/a.jpg", strings.NewReader("fake image bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/photos/order-1/a.jpg", url)

	rc, err := s.Download(ctx, "photos/order-1/a.jpg")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Download(context.Background(), "photos/missing.jpg")
	require.Error(t, err)
	assert.Equal(t, weldmark.ENOTFOUND, weldmark.ErrorCode(err))
}

func TestLocalStorage_Exists(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "reports/r.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Upload(ctx, "reports/r.pdf", strings.NewReader("pdf"), "application/pdf")
	require.NoError(t, err)

	exists, err = s.Exists(ctx, "reports/r.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorage_Delete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, "a.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "a.jpg"))

	exists, err := s.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing file is not an error.
	assert.NoError(t, s.Delete(ctx, "a.jpg"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Upload(context.Background(), "../outside.txt", strings.NewReader("x"), "text/plain")
	require.Error(t, err)
	assert.Equal(t, weldmark.EINVALID, weldmark.ErrorCode(err))
}

func TestNewFileStorage_UnknownProvider(t *testing.T) {
	_, err := NewFileStorage(context.Background(), weldmark.StorageConfig{Provider: "ftp"})
	assert.Error(t, err)
}
