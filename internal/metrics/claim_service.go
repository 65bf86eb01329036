package metrics

import (
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faucet",
		Subsystem: "claim_service",
		Name:      "claims_total",
		Help:      "Count of claim requests by outcome.",
	}, []string{"outcome"})
	claimDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faucet",
		Subsystem: "claim_service",
		Name:      "claim_duration_seconds",
		Help:      "Duration of the end-to-end claim flow.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"outcome"})
	claimRecordFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faucet",
		Subsystem: "claim_service",
		Name:      "record_failures_total",
		Help:      "Count of claim outcomes that could not be persisted.",
	}, []string{"status"})
	dispenserTokenBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "faucet",
		Subsystem: "dispenser",
		Name:      "token_balance",
		Help:      "Last observed token balance of the dispenser in display units.",
	})
	dispenserNativeBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "faucet",
		Subsystem: "dispenser",
		Name:      "native_balance",
		Help:      "Last observed native balance of the dispenser in display units.",
	})
)

// ClaimService tracks claim outcomes and dispenser balances.
type ClaimService struct{}

// NewClaimService creates a ClaimService metrics collector.
func NewClaimService() *ClaimService {
	return &ClaimService{}
}

// ObserveClaim records the outcome and duration of a claim. outcome is "success" or a rejection reason.
func (m ClaimService) ObserveClaim(outcome string, started time.Time) {
	if outcome == "" {
		outcome = "unknown"
	}
	claimsTotal.WithLabelValues(outcome).Inc()
	claimDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// ObserveRecordFailure counts a claim outcome that was dispensed but not persisted.
func (m ClaimService) ObserveRecordFailure(status model.ClaimStatus) {
	claimRecordFailuresTotal.WithLabelValues(string(status)).Inc()
}

func (m ClaimService) SetTokenBalance(balance float64) {
	dispenserTokenBalance.Set(balance)
}

func (m ClaimService) SetNativeBalance(balance float64) {
	dispenserNativeBalance.Set(balance)
}
