// internal/store/filestore.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zksub/zksub-backend/internal/apperrors"
	"github.com/zksub/zksub-backend/internal/models"
)

// FileStore keeps content records in memory and mirrors every mutation to a
// flat JSON file. A single RWMutex serializes writers, so two concurrent
// uploads cannot lose each other's full-file rewrite.
type FileStore struct {
	path string

	mtx     sync.RWMutex
	records []models.ContentRecord
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, &apperrors.StorageError{Op: "read contents file", Err: err}
	}

	if err := json.Unmarshal(data, &fs.records); err != nil {
		return nil, &apperrors.StorageError{Op: "parse contents file", Err: err}
	}

	return fs, nil
}

func (fs *FileStore) Create(ctx context.Context, record *models.ContentRecord) error {
	fs.mtx.Lock()
	defer fs.mtx.Unlock()

	fs.records = append(fs.records, *record)
	if err := fs.persist(); err != nil {
		fs.records = fs.records[:len(fs.records)-1]
		return err
	}
	return nil
}

func (fs *FileStore) List(ctx context.Context) ([]models.ContentRecord, error) {
	fs.mtx.RLock()
	defer fs.mtx.RUnlock()

	out := make([]models.ContentRecord, len(fs.records))
	copy(out, fs.records)
	return out, nil
}

func (fs *FileStore) ListByCreator(ctx context.Context, address string) ([]models.ContentRecord, error) {
	fs.mtx.RLock()
	defer fs.mtx.RUnlock()

	out := make([]models.ContentRecord, 0)
	for _, r := range fs.records {
		if r.CreatorAddress == address {
			out = append(out, r)
		}
	}
	return out, nil
}

func (fs *FileStore) Delete(ctx context.Context, id string) (*models.ContentRecord, error) {
	fs.mtx.Lock()
	defer fs.mtx.Unlock()

	for i, r := range fs.records {
		if r.ID != id {
			continue
		}
		removed := r
		fs.records = append(fs.records[:i], fs.records[i+1:]...)
		if err := fs.persist(); err != nil {
			return nil, err
		}
		return &removed, nil
	}

	return nil, &apperrors.NotFoundError{Resource: "content", ID: id}
}

// persist rewrites the whole contents file. Caller holds the write lock.
func (fs *FileStore) persist() error {
	data, err := json.MarshalIndent(fs.records, "", "  ")
	if err != nil {
		return &apperrors.StorageError{Op: "encode contents", Err: err}
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &apperrors.StorageError{Op: fmt.Sprintf("create %s", dir), Err: err}
	}

	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return &apperrors.StorageError{Op: "write contents file", Err: err}
	}
	return nil
}
