package evm

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/ratelimit"
)

// ObservedClient paces calls to the node and records per-call metrics.
type ObservedClient struct {
	client     EthClient
	limiter    ratelimit.Limiter
	rpcMetrics RPCMetrics
}

// Dial connects to the node at rawURL.
func Dial(ctx context.Context, rawURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("dial evm node: %w", err)
	}
	return client, nil
}

// NewObservedClient wraps client. A nil limiter means unlimited.
func NewObservedClient(client EthClient, limiter ratelimit.Limiter, rpcMetrics RPCMetrics) *ObservedClient {
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &ObservedClient{
		client:     client,
		limiter:    limiter,
		rpcMetrics: rpcMetrics,
	}
}

func (c *ObservedClient) ChainID(ctx context.Context) (id *big.Int, err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("chain_id", err, started)
	}()
	return c.client.ChainID(ctx)
}

func (c *ObservedClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) (out []byte, err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("call_contract", err, started)
	}()
	return c.client.CallContract(ctx, msg, blockNumber)
}

func (c *ObservedClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (balance *big.Int, err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("balance_at", err, started)
	}()
	return c.client.BalanceAt(ctx, account, blockNumber)
}

func (c *ObservedClient) PendingNonceAt(ctx context.Context, account common.Address) (nonce uint64, err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("pending_nonce_at", err, started)
	}()
	return c.client.PendingNonceAt(ctx, account)
}

func (c *ObservedClient) SuggestGasPrice(ctx context.Context) (price *big.Int, err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("suggest_gas_price", err, started)
	}()
	return c.client.SuggestGasPrice(ctx)
}

func (c *ObservedClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (gas uint64, err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("estimate_gas", err, started)
	}()
	return c.client.EstimateGas(ctx, msg)
}

func (c *ObservedClient) SendTransaction(ctx context.Context, tx *types.Transaction) (err error) {
	c.limiter.Take()
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("send_transaction", err, started)
	}()
	return c.client.SendTransaction(ctx, tx)
}
