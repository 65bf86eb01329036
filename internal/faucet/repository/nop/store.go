// Package nop provides the claim store used when history tracking is not configured.
package nop

import (
	"context"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

// Store tracks nothing. Eligibility checks treat every address as eligible and reads return empty results.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (Store) Enabled() bool {
	return false
}

func (Store) InsertClaim(_ context.Context, claim model.Claim) (model.Claim, error) {
	return claim, nil
}

func (Store) LatestCompletedClaim(context.Context, string) (*model.Claim, error) {
	return nil, nil
}

func (Store) ClaimHistory(context.Context, string, int) ([]model.Claim, error) {
	return []model.Claim{}, nil
}

func (Store) RecentClaims(context.Context, int) ([]model.Claim, error) {
	return []model.Claim{}, nil
}
