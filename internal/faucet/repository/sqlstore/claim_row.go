package sqlstore

import (
	"strconv"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

type claimRow struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Address   string    `gorm:"size:42;not null;index:idx_faucet_claims_address_created_at,priority:1"`
	Amount    string    `gorm:"size:78;not null"`
	TxHash    string    `gorm:"size:66"`
	ChainID   uint64    `gorm:"not null"`
	Status    string    `gorm:"size:16;not null"`
	SourceIP  string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"not null;index:idx_faucet_claims_address_created_at,priority:2;index:idx_faucet_claims_created_at"`
}

func (claimRow) TableName() string {
	return "faucet_claims"
}

func newClaimRow(c model.Claim) claimRow {
	return claimRow{
		Address:   c.Address,
		Amount:    c.Amount,
		TxHash:    c.TransferID,
		ChainID:   c.ChainID,
		Status:    string(c.Status),
		SourceIP:  c.SourceIP,
		CreatedAt: c.CreatedAt,
	}
}

func (r claimRow) claim() model.Claim {
	return model.Claim{
		ID:         strconv.FormatUint(r.ID, 10),
		Address:    r.Address,
		Amount:     r.Amount,
		TransferID: r.TxHash,
		ChainID:    r.ChainID,
		Status:     model.ClaimStatus(r.Status),
		SourceIP:   r.SourceIP,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func claims(rows []claimRow) []model.Claim {
	out := make([]model.Claim, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.claim())
	}
	return out
}
