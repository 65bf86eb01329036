package service

import (
	"context"
	"math/big"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ClaimStore interface {
		// Enabled is false for the null-object store used when history tracking is not configured.
		Enabled() bool
		InsertClaim(ctx context.Context, claim model.Claim) (model.Claim, error)
		LatestCompletedClaim(ctx context.Context, address string) (*model.Claim, error)
		ClaimHistory(ctx context.Context, address string, limit int) ([]model.Claim, error)
		RecentClaims(ctx context.Context, limit int) ([]model.Claim, error)
	}
	Ledger interface {
		DispenserAddress() string
		TokenAddress() string
		TokenBalance(ctx context.Context) (*big.Int, error)
		NativeBalance(ctx context.Context) (*big.Int, error)
		TokenMetadata(ctx context.Context) (model.TokenMetadata, error)
		Transfer(ctx context.Context, to string, amount *big.Int) (string, error)
	}
	AddressLocker interface {
		Lock(ctx context.Context, address string) (func(), error)
	}
	ClaimMetrics interface {
		ObserveClaim(outcome string, started time.Time)
		ObserveRecordFailure(status model.ClaimStatus)
		SetTokenBalance(balance float64)
		SetNativeBalance(balance float64)
	}

	EligibilityChecker interface {
		Check(ctx context.Context, address string) (model.Eligibility, error)
	}
	BalanceGuard interface {
		Check(ctx context.Context) (model.BalanceCheck, error)
	}
	TransferSubmitter interface {
		Submit(ctx context.Context, to string) (string, error)
	}
	ClaimRecorder interface {
		Record(ctx context.Context, claim model.Claim) (model.Claim, error)
	}
)
