package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faucet",
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of EVM node RPC operations.",
	}, []string{"operation", "chain_id", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faucet",
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of EVM node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "chain_id", "status"})
)

// RPCClient tracks metrics for calls to the EVM node.
type RPCClient struct {
	chainID string
}

// NewRPCClient constructs a metrics collector for RPC calls on one chain.
func NewRPCClient(chainID uint64) *RPCClient {
	label := "unknown"
	if chainID != 0 {
		label = strconv.FormatUint(chainID, 10)
	}
	return &RPCClient{chainID: label}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	status := statusLabel(err)

	rpcRequestsTotal.WithLabelValues(operation, m.chainID, status).Inc()
	rpcRequestDuration.WithLabelValues(operation, m.chainID, status).Observe(time.Since(started).Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
