// Package clickhouse stores faucet claims in an append-only ClickHouse table.
package clickhouse

import (
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/faucet-backend/internal/clock"
)

type Repository struct {
	conn    Conn
	metrics Metrics
	now     clock.NowFunc
}

func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: conn, metrics: metrics, now: clock.UTCNow}, nil
}

// Enabled reports that claims are tracked.
func (r *Repository) Enabled() bool {
	return true
}

func (r *Repository) Close() error {
	return r.conn.Close()
}
