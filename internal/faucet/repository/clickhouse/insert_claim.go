package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"github.com/google/uuid"
)

// InsertClaim appends a claim row. ID and CreatedAt are assigned here.
func (r *Repository) InsertClaim(ctx context.Context, claim model.Claim) (model.Claim, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_claim", err, start)
	}()

	id, err := uuid.NewV7()
	if err != nil {
		return claim, fmt.Errorf("generate claim id: %w", err)
	}
	claim.ID = id.String()
	claim.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	const query = `
INSERT INTO faucet_claims (
	id,
	address,
	amount,
	tx_hash,
	chain_id,
	status,
	source_ip,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if err = r.conn.Exec(ctx, query,
		claim.ID,
		claim.Address,
		claim.Amount,
		claim.TransferID,
		claim.ChainID,
		string(claim.Status),
		claim.SourceIP,
		claim.CreatedAt,
	); err != nil {
		return claim, fmt.Errorf("insert claim: %w", err)
	}
	return claim, nil
}
