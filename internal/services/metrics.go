// internal/services/metrics.go
package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reconciliationsTotal counts payment reconciliation outcomes.
	reconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zksub_payment_reconciliations_total",
			Help: "Payment reconciliation attempts by result",
		},
		[]string{"result"},
	)

	// contentOpsTotal counts content store operations.
	contentOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zksub_content_operations_total",
			Help: "Content operations by type and result",
		},
		[]string{"operation", "result"},
	)
)
