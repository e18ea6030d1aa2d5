// internal/services/payment_service.go
package services

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zksub/zksub-backend/internal/apperrors"
	"github.com/zksub/zksub-backend/internal/config"
	"github.com/zksub/zksub-backend/internal/intmax"
	"github.com/zksub/zksub-backend/internal/models"
)

// AmountTolerance is the absolute tolerance applied when matching a claimed
// amount against a history entry converted from base units. Absolute rather
// than relative to the claim: loose for large amounts, tight for small ones.
const AmountTolerance = 1e-7

const reasonNotFound = "Transaction not found or invalid"

// PaymentService reconciles transaction claims against the payment network's
// transaction history and commits subscription grants for confirmed claims.
// The client never gets to assert a payment into existence: the server
// fetches the history itself and searches for a matching transaction.
type PaymentService struct {
	client intmax.Client
	subs   *SubscriptionService
	cfg    config.IntMaxConfig
}

func NewPaymentService(client intmax.Client, subs *SubscriptionService, cfg config.IntMaxConfig) *PaymentService {
	return &PaymentService{
		client: client,
		subs:   subs,
		cfg:    cfg,
	}
}

// ValidatePayment runs one reconciliation: acquire a session, fetch the
// history, match, and on success append a grant. A duplicate valid claim
// appends a second grant; there is no dedup.
func (s *PaymentService) ValidatePayment(ctx context.Context, claim models.TransactionClaim) (*models.SubscriptionGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Second)
	defer cancel()

	var grant *models.SubscriptionGrant
	err := s.withSession(ctx, func(ctx context.Context) error {
		transactions, err := s.fetchHistory(ctx)
		if err != nil {
			return &apperrors.ExternalServiceError{Op: "fetch transaction history", Err: err}
		}

		tx, ok := MatchTransaction(claim, transactions, s.cfg.TokenDecimals)
		if !ok {
			return &apperrors.PaymentNotVerifiedError{Reason: reasonNotFound}
		}

		logrus.WithFields(logrus.Fields{
			"digest":     tx.Digest,
			"recipient":  tx.To,
			"subscriber": claim.SubscriberAddress,
			"content_id": claim.ContentID,
		}).Info("Payment claim confirmed")

		grant, err = s.subs.Grant(ctx, claim.SubscriberAddress, claim.ContentID)
		return err
	})

	switch err.(type) {
	case nil:
		reconciliationsTotal.WithLabelValues("valid").Inc()
	case *apperrors.PaymentNotVerifiedError:
		reconciliationsTotal.WithLabelValues("not_found").Inc()
	default:
		reconciliationsTotal.WithLabelValues("error").Inc()
	}

	if err != nil {
		return nil, err
	}
	return grant, nil
}

// withSession brackets fn in a login/logout pair. Logout runs on every exit
// path, on a fresh short context so a timed-out reconciliation still releases
// the session.
func (s *PaymentService) withSession(ctx context.Context, fn func(context.Context) error) error {
	if err := s.client.Login(ctx); err != nil {
		return &apperrors.ExternalServiceError{Op: "login", Err: err}
	}

	defer func() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.client.Logout(logoutCtx); err != nil {
			logrus.WithError(err).Warn("Failed to release payment network session")
		}
	}()

	return fn(ctx)
}

// fetchHistory retries the history fetch with exponential backoff. Only the
// fetch is retried; a failed login is reported immediately.
func (s *PaymentService) fetchHistory(ctx context.Context) ([]intmax.Transaction, error) {
	backoff := time.Duration(s.cfg.RetryBackoff) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= s.cfg.RetryAttempts; attempt++ {
		transactions, err := s.client.FetchTransactionHistory(ctx)
		if err == nil {
			return transactions, nil
		}
		lastErr = err

		logrus.WithError(err).WithField("attempt", attempt).
			Warn("Transaction history fetch failed")

		if attempt == s.cfg.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, lastErr
}

// MatchTransaction scans the history for a transaction satisfying all three
// match predicates. Histories are small in this domain; a linear scan is
// fine.
func MatchTransaction(claim models.TransactionClaim, transactions []intmax.Transaction, decimals int) (*intmax.Transaction, bool) {
	for i := range transactions {
		tx := &transactions[i]
		if digestMatches(tx, claim) && recipientMatches(tx, claim) && amountMatches(tx, claim, decimals) {
			return tx, true
		}
	}
	return nil, false
}

// digestMatches requires an exact digest match; no fuzzy matching.
func digestMatches(tx *intmax.Transaction, claim models.TransactionClaim) bool {
	return tx.Digest == claim.TxReference
}

// recipientMatches requires an exact recipient match.
func recipientMatches(tx *intmax.Transaction, claim models.TransactionClaim) bool {
	return tx.To == claim.CreatorAddress
}

// amountMatches converts the history amount from base units and compares it
// to the claimed amount within AmountTolerance. An unparseable amount never
// matches.
func amountMatches(tx *intmax.Transaction, claim models.TransactionClaim, decimals int) bool {
	raw, err := strconv.ParseFloat(tx.Amount, 64)
	if err != nil {
		return false
	}
	converted := raw / math.Pow(10, float64(decimals))
	return math.Abs(converted-claim.Amount) < AmountTolerance
}
