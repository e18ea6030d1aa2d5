// internal/models/subscription.go
package models

import "time"

// SubscriptionGrant is an append-only access grant. A re-subscription appends
// a new grant rather than extending an old one, so multiple grants for the
// same (subscriber, content) pair may coexist. Grants are never deleted;
// expiry is evaluated lazily by comparison against the current time.
type SubscriptionGrant struct {
	ID                uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	SubscriberAddress string `json:"subscriberAddress" gorm:"index;not null"`
	ContentID         string `json:"contentId" gorm:"not null"`
	// ExpiresAt is Unix milliseconds, matching the wire contract.
	ExpiresAt int64 `json:"expiresAt" gorm:"not null"`
}

// Active reports whether the grant covers the given instant. A grant is valid
// strictly before its expiry: at exactly ExpiresAt it is already inactive.
func (g *SubscriptionGrant) Active(now time.Time) bool {
	return now.UnixMilli() < g.ExpiresAt
}

// TransactionClaim is a client-submitted assertion that a payment transaction
// occurred. It drives one reconciliation attempt and is never persisted.
type TransactionClaim struct {
	SubscriberAddress string
	CreatorAddress    string
	Amount            float64
	TxReference       string
	ContentID         string
}
