// internal/store/store.go
package store

import (
	"context"

	"github.com/zksub/zksub-backend/internal/models"
)

// ContentStore persists content metadata. Implementations must serialize
// writers; concurrent mutations must not lose updates.
type ContentStore interface {
	Create(ctx context.Context, record *models.ContentRecord) error
	List(ctx context.Context) ([]models.ContentRecord, error)
	ListByCreator(ctx context.Context, address string) ([]models.ContentRecord, error)
	// Delete removes the record and returns it so the caller can clean up
	// the backing asset. Returns NotFoundError for unknown ids.
	Delete(ctx context.Context, id string) (*models.ContentRecord, error)
}

// SubscriptionLedger is the append-only record of access grants.
type SubscriptionLedger interface {
	Append(ctx context.Context, grant *models.SubscriptionGrant) error
	ListFor(ctx context.Context, subscriberAddress string) ([]models.SubscriptionGrant, error)
}
