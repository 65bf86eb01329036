package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

// RecentClaims returns up to limit claims across all addresses, newest first.
func (r *Repository) RecentClaims(ctx context.Context, limit int) ([]model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("recent_claims", err, start)
	}()

	const query = `
SELECT` + claimColumns + `
FROM faucet_claims
ORDER BY created_at DESC, id DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent claims: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	claims, err := scanClaims(rows)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
