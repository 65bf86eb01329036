package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/faucet-backend/internal/faucet/ledger/evm"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/lock"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/repository/clickhouse"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/repository/nop"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/repository/sqlstore"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/service"
	"github.com/goodnatureofminers/faucet-backend/internal/metrics"
	"github.com/goodnatureofminers/faucet-backend/internal/transport"
	"github.com/goodnatureofminers/faucet-backend/pkg/safe"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

var config struct {
	Addr          string `long:"addr" env:"FAUCET_ADDR" description:"HTTP listen addr" default:":8080"`
	LogProduction bool   `long:"log-production" env:"FAUCET_LOG_PRODUCTION" description:"use JSON production logging"`

	RPCURL       string        `long:"rpc-url" env:"FAUCET_RPC_URL" description:"EVM JSON-RPC endpoint" required:"true"`
	ChainID      uint64        `long:"chain-id" env:"FAUCET_CHAIN_ID" description:"expected chain id" default:"11155111"`
	PrivateKey   string        `long:"private-key" env:"FAUCET_PRIVATE_KEY" description:"dispenser private key (hex)" required:"true"`
	RPCTimeout   time.Duration `long:"rpc-timeout" env:"FAUCET_RPC_TIMEOUT" description:"timeout of a single read call" default:"10s"`
	RPCRateLimit int           `long:"rpc-rate-limit" env:"FAUCET_RPC_RATE_LIMIT" description:"max RPC calls per second, 0 disables pacing" default:"20"`

	TokenAddress  string `long:"token-address" env:"FAUCET_TOKEN_ADDRESS" description:"ERC-20 contract address" required:"true"`
	TokenDecimals int    `long:"token-decimals" env:"FAUCET_TOKEN_DECIMALS" description:"token decimals" default:"6"`
	TokenSymbol   string `long:"token-symbol" env:"FAUCET_TOKEN_SYMBOL" description:"symbol shown when the contract does not answer" default:"USDC"`
	TokenName     string `long:"token-name" env:"FAUCET_TOKEN_NAME" description:"name shown when the contract does not answer" default:"USD Coin"`

	Amount          string        `long:"amount" env:"FAUCET_AMOUNT" description:"per-claim amount in display units" default:"10"`
	Cooldown        time.Duration `long:"cooldown" env:"FAUCET_COOLDOWN" description:"interval between claims of one address" default:"24h"`
	TransferTimeout time.Duration `long:"transfer-timeout" env:"FAUCET_TRANSFER_TIMEOUT" description:"bound on transfer submission" default:"30s"`
	HistoryMaxLimit int           `long:"history-max-limit" env:"FAUCET_HISTORY_MAX_LIMIT" description:"max rows returned by history reads" default:"100"`

	Store              string        `long:"store" env:"FAUCET_STORE" description:"claim store" choice:"none" choice:"clickhouse" choice:"sqlite" choice:"postgres" default:"none"`
	StoreDSN           string        `long:"store-dsn" env:"FAUCET_STORE_DSN" description:"claim store DSN"`
	StoreTimeout       time.Duration `long:"store-timeout" env:"FAUCET_STORE_TIMEOUT" description:"timeout of a single claim store read" default:"5s"`
	StoreFailurePolicy string        `long:"store-failure-policy" env:"FAUCET_STORE_FAILURE_POLICY" description:"claim behaviour when the store cannot answer" choice:"fail-closed" choice:"fail-open" default:"fail-closed"`

	Lock          string        `long:"lock" env:"FAUCET_LOCK" description:"per-address claim lock" choice:"local" choice:"redis" default:"local"`
	RedisAddr     string        `long:"redis-addr" env:"FAUCET_REDIS_ADDR" description:"redis addr for the redis lock" default:"localhost:6379"`
	RedisPassword string        `long:"redis-password" env:"FAUCET_REDIS_PASSWORD" description:"redis password"`
	LockTTL       time.Duration `long:"lock-ttl" env:"FAUCET_LOCK_TTL" description:"redis lock ttl, must exceed the longest claim" default:"2m"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		panic("failed to parse arguments: " + err.Error())
	}
	logger, err := newLogger(config.LogProduction)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	decimals, err := safe.Uint8(config.TokenDecimals)
	if err != nil {
		logger.Fatal("Invalid token decimals", zap.Error(err))
	}
	amount, err := model.ParseAmount(config.Amount, decimals)
	if err != nil {
		logger.Fatal("Invalid claim amount", zap.Error(err))
	}

	ledger, closeLedger, err := newLedger(ctx, logger)
	if err != nil {
		logger.Fatal("Init ledger", zap.Error(err))
	}
	defer closeLedger()
	if err := service.VerifyTokenDecimals(ctx, ledger, decimals); errors.Is(err, service.ErrDecimalsMismatch) {
		logger.Fatal("Token decimals do not match the contract", zap.Error(err))
	} else if err != nil {
		logger.Warn("Could not verify token decimals against the contract", zap.Error(err))
	}

	store, err := newClaimStore()
	if err != nil {
		logger.Fatal("Init claim store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close claim store", zap.Error(err))
		}
	}()
	if !store.Enabled() {
		logger.Warn("No claim store configured, cooldown is not enforced")
	}

	cfg := service.Config{
		Amount:             amount,
		Decimals:           decimals,
		ChainID:            config.ChainID,
		Cooldown:           config.Cooldown,
		TransferTimeout:    config.TransferTimeout,
		StoreTimeout:       config.StoreTimeout,
		LedgerReadTimeout:  config.RPCTimeout,
		StoreFailurePolicy: service.StoreFailurePolicy(config.StoreFailurePolicy),
		HistoryMaxLimit:    config.HistoryMaxLimit,
		FallbackSymbol:     config.TokenSymbol,
		FallbackName:       config.TokenName,
	}
	claimMetrics := metrics.NewClaimService()

	locker, closeLocker, err := newLocker(logger, cfg.MaxClaimDuration())
	if err != nil {
		logger.Fatal("Init address lock", zap.Error(err))
	}
	defer closeLocker()

	claims, err := service.NewClaimService(store, ledger, locker, claimMetrics, cfg, logger)
	if err != nil {
		logger.Fatal("Init claim service", zap.Error(err))
	}
	reader, err := service.NewHistoryReader(store, cfg)
	if err != nil {
		logger.Fatal("Init history reader", zap.Error(err))
	}
	info, err := service.NewInfoReader(ledger, claimMetrics, cfg, logger)
	if err != nil {
		logger.Fatal("Init info reader", zap.Error(err))
	}

	mux := http.NewServeMux()
	transport.NewFaucetHandler(claims, reader, info, metrics.NewHTTPHandler(), logger).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              config.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.MaxClaimDuration() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.MaxClaimDuration())
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server",
		zap.String("addr", config.Addr),
		zap.String("dispenser", ledger.DispenserAddress()),
		zap.String("token", ledger.TokenAddress()),
		zap.Uint64("chain_id", config.ChainID),
		zap.String("store", config.Store),
		zap.String("lock", config.Lock),
	)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newLedger(ctx context.Context, logger *zap.Logger) (*evm.Ledger, func(), error) {
	dialCtx, cancel := context.WithTimeout(ctx, config.RPCTimeout)
	defer cancel()
	client, err := evm.Dial(dialCtx, config.RPCURL)
	if err != nil {
		return nil, nil, err
	}

	limiter := ratelimit.NewUnlimited()
	if config.RPCRateLimit > 0 {
		limiter = ratelimit.New(config.RPCRateLimit)
	}
	observed := evm.NewObservedClient(client, limiter, metrics.NewRPCClient(config.ChainID))

	ledger, err := evm.New(observed, evm.Config{
		ChainID:      config.ChainID,
		PrivateKey:   config.PrivateKey,
		TokenAddress: config.TokenAddress,
		RPCTimeout:   config.RPCTimeout,
	}, logger)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	if err := ledger.VerifyChain(ctx); err != nil {
		client.Close()
		return nil, nil, err
	}
	return ledger, client.Close, nil
}

type claimStore interface {
	service.ClaimStore
	io.Closer
}

func newClaimStore() (claimStore, error) {
	repoMetrics := metrics.NewClaimRepository(config.Store)
	switch config.Store {
	case "none":
		return nopCloser{nop.NewStore()}, nil
	case "clickhouse":
		repo, err := clickhouse.NewRepository(config.StoreDSN, repoMetrics)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "sqlite", "postgres":
		store, err := sqlstore.Open(sqlstore.Driver(config.Store), config.StoreDSN, repoMetrics)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown claim store %q", config.Store)
	}
}

type nopCloser struct {
	*nop.Store
}

func (nopCloser) Close() error {
	return nil
}

func newLocker(logger *zap.Logger, maxClaim time.Duration) (service.AddressLocker, func(), error) {
	if config.Lock != "redis" {
		return lock.NewLocal(), func() {}, nil
	}
	if config.LockTTL <= maxClaim {
		return nil, nil, fmt.Errorf("lock ttl %s must exceed the longest claim %s", config.LockTTL, maxClaim)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	locker, err := lock.NewRedis(client, config.LockTTL, logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	return locker, closeFn, nil
}
