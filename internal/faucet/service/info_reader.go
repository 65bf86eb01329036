package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InfoReader assembles the faucet summary from parallel ledger reads.
type InfoReader struct {
	ledger  Ledger
	metrics ClaimMetrics
	cfg     Config
	logger  *zap.Logger
}

// NewInfoReader builds an InfoReader.
func NewInfoReader(ledger Ledger, metrics ClaimMetrics, cfg Config, logger *zap.Logger) (*InfoReader, error) {
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if metrics == nil {
		return nil, errors.New("claim metrics is required")
	}
	return &InfoReader{ledger: ledger, metrics: metrics, cfg: cfg, logger: logger.Named("infoReader")}, nil
}

// Info reads balances and token metadata. Metadata falls back to the configured values when the
// token contract does not answer; balance failures fail the call.
func (r *InfoReader) Info(ctx context.Context) (model.FaucetInfo, error) {
	var (
		tokenBalance  *big.Int
		nativeBalance *big.Int
		meta          model.TokenMetadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := r.ledger.TokenBalance(gctx)
		if err != nil {
			return fmt.Errorf("token balance: %w", err)
		}
		tokenBalance = b
		return nil
	})
	g.Go(func() error {
		b, err := r.ledger.NativeBalance(gctx)
		if err != nil {
			return fmt.Errorf("native balance: %w", err)
		}
		nativeBalance = b
		return nil
	})
	g.Go(func() error {
		m, err := r.ledger.TokenMetadata(gctx)
		if err != nil {
			r.logger.Warn("token metadata unavailable, using configured values", zap.Error(err))
			m = model.TokenMetadata{Symbol: r.cfg.FallbackSymbol, Name: r.cfg.FallbackName, Decimals: r.cfg.Decimals}
		}
		meta = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.FaucetInfo{}, err
	}

	token := model.DisplayAmount(tokenBalance, r.cfg.Decimals)
	native := model.DisplayAmount(nativeBalance, model.NativeDecimals)
	r.metrics.SetTokenBalance(token.InexactFloat64())
	r.metrics.SetNativeBalance(native.InexactFloat64())

	return model.FaucetInfo{
		FaucetAddress:  r.ledger.DispenserAddress(),
		TokenAddress:   r.ledger.TokenAddress(),
		TokenSymbol:    meta.Symbol,
		TokenName:      meta.Name,
		TokenDecimals:  r.cfg.Decimals,
		TokenBalance:   token.String(),
		NativeBalance:  native.String(),
		AmountPerClaim: model.FormatAmount(r.cfg.Amount, r.cfg.Decimals),
		ChainID:        r.cfg.ChainID,
		ClaimInterval:  DescribeCooldown(r.cfg.Cooldown),
	}, nil
}
