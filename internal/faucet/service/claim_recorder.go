package service

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

type claimRecorder struct {
	store ClaimStore
}

// Record appends the claim. Without a configured store it returns the claim unchanged.
func (r *claimRecorder) Record(ctx context.Context, claim model.Claim) (model.Claim, error) {
	if !r.store.Enabled() {
		return claim, nil
	}
	saved, err := r.store.InsertClaim(ctx, claim)
	if err != nil {
		return claim, fmt.Errorf("insert claim: %w", err)
	}
	return saved, nil
}
