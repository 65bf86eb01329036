package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

// ClaimHistory returns up to limit claims of address, newest first.
func (r *Repository) ClaimHistory(ctx context.Context, address string, limit int) ([]model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("claim_history", err, start)
	}()

	const query = `
SELECT` + claimColumns + `
FROM faucet_claims
WHERE address = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, address, limit)
	if err != nil {
		return nil, fmt.Errorf("query claim history: %w", err)
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
