package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faucet",
		Subsystem: "claim_repository",
		Name:      "operations_total",
		Help:      "Count of claim store operations.",
	}, []string{"operation", "store", "status"})
	claimRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faucet",
		Subsystem: "claim_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of claim store operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "store", "status"})
)

// ClaimRepository tracks metrics for claim store operations.
type ClaimRepository struct {
	store string
}

// NewClaimRepository creates a collector labelled with the store backend, e.g. "clickhouse".
func NewClaimRepository(store string) *ClaimRepository {
	if store == "" {
		store = "unknown"
	}
	return &ClaimRepository{store: store}
}

// Observe records duration and status of a repository operation.
func (m ClaimRepository) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)

	claimRepositoryRequestsTotal.WithLabelValues(operation, m.store, status).Inc()
	claimRepositoryRequestDuration.WithLabelValues(operation, m.store, status).Observe(time.Since(started).Seconds())
}
