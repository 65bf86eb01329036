package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

// LatestCompletedClaim returns the newest completed claim of address, or nil when there is none.
func (r *Repository) LatestCompletedClaim(ctx context.Context, address string) (*model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("latest_completed_claim", err, start)
	}()

	const query = `
SELECT` + claimColumns + `
FROM faucet_claims
WHERE address = ? AND status = ?
ORDER BY created_at DESC
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, address, string(model.ClaimCompleted))
	if err != nil {
		return nil, fmt.Errorf("query latest completed claim: %w", err)
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
	if len(claims) == 0 {
		return nil, nil
	}
	return &claims[0], nil
}
