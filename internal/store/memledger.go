// internal/store/memledger.go
package store

import (
	"context"
	"sync"

	"github.com/zksub/zksub-backend/internal/models"
)

// MemoryLedger holds subscription grants in process memory. Grants do not
// survive a restart under this ledger; the Postgres store is the durable
// alternative.
type MemoryLedger struct {
	mtx    sync.RWMutex
	grants []models.SubscriptionGrant
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Append(ctx context.Context, grant *models.SubscriptionGrant) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	grant.ID = uint(len(l.grants) + 1)
	l.grants = append(l.grants, *grant)
	return nil
}

func (l *MemoryLedger) ListFor(ctx context.Context, subscriberAddress string) ([]models.SubscriptionGrant, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	out := make([]models.SubscriptionGrant, 0)
	for _, g := range l.grants {
		if g.SubscriberAddress == subscriberAddress {
			out = append(out, g)
		}
	}
	return out, nil
}
