// internal/services/content_service.go
package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zksub/zksub-backend/internal/apperrors"
	"github.com/zksub/zksub-backend/internal/models"
	"github.com/zksub/zksub-backend/internal/store"
)

type ContentService struct {
	store  store.ContentStore
	assets *StorageService
}

type UploadContentRequest struct {
	Name           string  `validate:"required"`
	Description    string  `validate:"required"`
	Price          float64 `validate:"required,gt=0"`
	CreatorAddress string  `validate:"required,wallet_address"`
	FileName       string    `validate:"-"`
	File           io.Reader `validate:"-"`
}

func NewContentService(contentStore store.ContentStore, assets *StorageService) *ContentService {
	return &ContentService{
		store:  contentStore,
		assets: assets,
	}
}

func (s *ContentService) Upload(ctx context.Context, req *UploadContentRequest) (*models.ContentRecord, error) {
	id := uuid.NewString()

	filePath, err := s.assets.Save(id, req.FileName, req.File)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "store asset", Err: err}
	}

	record := &models.ContentRecord{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CreatorAddress: req.CreatorAddress,
		FilePath:       filePath,
	}

	if err := s.store.Create(ctx, record); err != nil {
		// Metadata write failed; drop the orphaned asset.
		if cleanupErr := s.assets.Delete(filePath); cleanupErr != nil {
			logrus.WithError(cleanupErr).WithField("content_id", id).
				Warn("Failed to clean up asset after metadata write failure")
		}
		contentOpsTotal.WithLabelValues("upload", "error").Inc()
		return nil, err
	}

	contentOpsTotal.WithLabelValues("upload", "success").Inc()
	logrus.WithFields(logrus.Fields{
		"content_id": id,
		"creator":    req.CreatorAddress,
		"file_path":  filePath,
	}).Info("Content uploaded")

	return record, nil
}

func (s *ContentService) List(ctx context.Context) ([]models.ContentRecord, error) {
	return s.store.List(ctx)
}

func (s *ContentService) ListByCreator(ctx context.Context, address string) ([]models.ContentRecord, error) {
	return s.store.ListByCreator(ctx, address)
}

// Delete removes the metadata record first, then the backing asset. Asset
// removal failure does not restore the record; it is surfaced as a partial
// failure instead of being swallowed.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	record, err := s.store.Delete(ctx, id)
	if err != nil {
		contentOpsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}

	if err := s.assets.Delete(record.FilePath); err != nil {
		contentOpsTotal.WithLabelValues("delete", "partial").Inc()
		logrus.WithError(err).WithField("content_id", id).
			Error("Content metadata removed but asset removal failed")
		return &apperrors.StorageError{Op: "remove asset", Err: err}
	}

	contentOpsTotal.WithLabelValues("delete", "success").Inc()
	logrus.WithField("content_id", id).Info("Content deleted")
	return nil
}
