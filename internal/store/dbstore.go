// internal/store/dbstore.go
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zksub/zksub-backend/internal/apperrors"
	"github.com/zksub/zksub-backend/internal/models"
)

// DBStore backs both the content store and the subscription ledger with
// Postgres. Write serialization is delegated to the database.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Create(ctx context.Context, record *models.ContentRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return &apperrors.StorageError{Op: "insert content record", Err: err}
	}
	return nil
}

func (s *DBStore) List(ctx context.Context) ([]models.ContentRecord, error) {
	records := make([]models.ContentRecord, 0)
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, &apperrors.StorageError{Op: "list content records", Err: err}
	}
	return records, nil
}

func (s *DBStore) ListByCreator(ctx context.Context, address string) ([]models.ContentRecord, error) {
	records := make([]models.ContentRecord, 0)
	if err := s.db.WithContext(ctx).
		Where("creator_address = ?", address).
		Find(&records).Error; err != nil {
		return nil, &apperrors.StorageError{Op: "list content records by creator", Err: err}
	}
	return records, nil
}

func (s *DBStore) Delete(ctx context.Context, id string) (*models.ContentRecord, error) {
	var record models.ContentRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.NotFoundError{Resource: "content", ID: id}
	}
	if err != nil {
		return nil, &apperrors.StorageError{Op: "load content record", Err: err}
	}

	if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
		return nil, &apperrors.StorageError{Op: "delete content record", Err: err}
	}
	return &record, nil
}

func (s *DBStore) Append(ctx context.Context, grant *models.SubscriptionGrant) error {
	if err := s.db.WithContext(ctx).Create(grant).Error; err != nil {
		return &apperrors.StorageError{Op: "insert subscription grant", Err: err}
	}
	return nil
}

func (s *DBStore) ListFor(ctx context.Context, subscriberAddress string) ([]models.SubscriptionGrant, error) {
	grants := make([]models.SubscriptionGrant, 0)
	if err := s.db.WithContext(ctx).
		Where("subscriber_address = ?", subscriberAddress).
		Find(&grants).Error; err != nil {
		return nil, &apperrors.StorageError{Op: "list subscription grants", Err: err}
	}
	return grants, nil
}
