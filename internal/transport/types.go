package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Claimer interface {
		Claim(ctx context.Context, req model.ClaimRequest) model.ClaimResult
	}
	ClaimReader interface {
		Status(ctx context.Context, address string) (model.Eligibility, error)
		History(ctx context.Context, address string, limit int) ([]model.Claim, error)
		Recent(ctx context.Context, limit int) ([]model.Claim, error)
	}
	InfoProvider interface {
		Info(ctx context.Context) (model.FaucetInfo, error)
	}
	HTTPMetrics interface {
		Observe(route string, code int, started time.Time)
	}
)
