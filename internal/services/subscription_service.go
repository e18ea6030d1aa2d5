// internal/services/subscription_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zksub/zksub-backend/internal/models"
	"github.com/zksub/zksub-backend/internal/store"
)

type SubscriptionService struct {
	ledger   store.SubscriptionLedger
	duration time.Duration
}

func NewSubscriptionService(ledger store.SubscriptionLedger, duration time.Duration) *SubscriptionService {
	return &SubscriptionService{
		ledger:   ledger,
		duration: duration,
	}
}

// Grant appends a new access grant expiring after the configured duration.
// Existing grants for the pair are never extended or deduplicated.
func (s *SubscriptionService) Grant(ctx context.Context, subscriberAddress, contentID string) (*models.SubscriptionGrant, error) {
	grant := &models.SubscriptionGrant{
		SubscriberAddress: subscriberAddress,
		ContentID:         contentID,
		ExpiresAt:         time.Now().Add(s.duration).UnixMilli(),
	}

	if err := s.ledger.Append(ctx, grant); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"subscriber": subscriberAddress,
		"content_id": contentID,
		"expires_at": grant.ExpiresAt,
	}).Info("Subscription granted")

	return grant, nil
}

func (s *SubscriptionService) ListFor(ctx context.Context, subscriberAddress string) ([]models.SubscriptionGrant, error) {
	return s.ledger.ListFor(ctx, subscriberAddress)
}

// IsActive reports whether any grant for contentID is still valid at now.
// Any active grant suffices; there is no need to pick the latest one.
func IsActive(contentID string, grants []models.SubscriptionGrant, now time.Time) bool {
	for i := range grants {
		if grants[i].ContentID == contentID && grants[i].Active(now) {
			return true
		}
	}
	return false
}
