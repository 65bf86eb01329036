package clickhouse

import (
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

const claimColumns = `
	toString(id),
	address,
	amount,
	tx_hash,
	chain_id,
	status,
	source_ip,
	created_at`

func scanClaims(rows driver.Rows) ([]model.Claim, error) {
	claims := make([]model.Claim, 0)
	for rows.Next() {
		var (
			c         model.Claim
			status    string
			createdAt time.Time
		)
		if err := rows.Scan(
			&c.ID,
			&c.Address,
			&c.Amount,
			&c.TransferID,
			&c.ChainID,
			&status,
			&c.SourceIP,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		c.Status = model.ClaimStatus(status)
		c.CreatedAt = createdAt.UTC()
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return claims, nil
}
