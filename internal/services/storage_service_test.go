// internal/services/storage_service_test.go
package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zksub/zksub-backend/internal/config"
)

func newLocalStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "public")
	svc, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{PublicDir: dir},
	})
	require.NoError(t, err)
	return svc, dir
}

func TestStorageSaveWritesToPublicDir(t *testing.T) {
	svc, dir := newLocalStorage(t)

	path, err := svc.Save("abc123", "ep1.mp4", strings.NewReader("video-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/public/abc123-ep1.mp4", path)

	data, err := os.ReadFile(filepath.Join(dir, "abc123-ep1.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))
}

func TestStorageSaveSanitizesFilename(t *testing.T) {
	svc, dir := newLocalStorage(t)

	path, err := svc.Save("abc123", "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/public/abc123-passwd", path)

	_, err = os.Stat(filepath.Join(dir, "abc123-passwd"))
	assert.NoError(t, err)
}

func TestStorageDeleteRemovesAsset(t *testing.T) {
	svc, dir := newLocalStorage(t)

	path, err := svc.Save("abc123", "ep1.mp4", strings.NewReader("video-bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(path))

	_, err = os.Stat(filepath.Join(dir, "abc123-ep1.mp4"))
	assert.True(t, os.IsNotExist(err))

	// A second delete finds nothing left to remove and is not an error
	assert.NoError(t, svc.Delete(path))
}
