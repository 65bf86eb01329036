// Package evm implements the faucet ledger on an EVM chain holding an ERC-20 token.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goodnatureofminers/faucet-backend/internal/faucet/model"
	"go.uber.org/zap"
)

// Config describes the dispenser account and the token it dispenses.
type Config struct {
	ChainID      uint64
	PrivateKey   string
	TokenAddress string
	// RPCTimeout bounds each read call. Zero leaves reads bounded by the caller only.
	RPCTimeout time.Duration
}

// Ledger reads balances and submits ERC-20 transfers signed by the dispenser key.
type Ledger struct {
	client     EthClient
	key        *ecdsa.PrivateKey
	from       common.Address
	token      common.Address
	chainID    *big.Int
	signer     types.Signer
	erc20      abi.ABI
	rpcTimeout time.Duration
	logger     *zap.Logger

	// sendMu serializes nonce allocation and broadcast for the dispenser account.
	sendMu sync.Mutex
}

// New builds a Ledger over client.
func New(client EthClient, cfg Config, logger *zap.Logger) (*Ledger, error) {
	if client == nil {
		return nil, errors.New("eth client is required")
	}
	if cfg.ChainID == 0 {
		return nil, errors.New("chain id is required")
	}
	if !common.IsHexAddress(cfg.TokenAddress) {
		return nil, fmt.Errorf("invalid token address %q", cfg.TokenAddress)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(cfg.PrivateKey, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("parse dispenser key: %w", err)
	}
	erc20, err := parseERC20()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	chainID := new(big.Int).SetUint64(cfg.ChainID)
	from := crypto.PubkeyToAddress(key.PublicKey)
	return &Ledger{
		client:     client,
		key:        key,
		from:       from,
		token:      common.HexToAddress(cfg.TokenAddress),
		chainID:    chainID,
		signer:     types.LatestSignerForChainID(chainID),
		erc20:      erc20,
		rpcTimeout: cfg.RPCTimeout,
		logger:     logger.Named("evmLedger").With(zap.String("dispenser", from.Hex())),
	}, nil
}

// VerifyChain fails when the node serves a different chain than configured.
func (l *Ledger) VerifyChain(ctx context.Context) error {
	ctx, cancel := l.readContext(ctx)
	defer cancel()

	id, err := l.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: chain id: %w", model.ErrLedgerUnavailable, err)
	}
	if id.Cmp(l.chainID) != 0 {
		return fmt.Errorf("node serves chain %s, configured %s", id, l.chainID)
	}
	return nil
}

func (l *Ledger) DispenserAddress() string {
	return l.from.Hex()
}

func (l *Ledger) TokenAddress() string {
	return l.token.Hex()
}

// TokenBalance returns the dispenser token balance in raw units.
func (l *Ledger) TokenBalance(ctx context.Context) (*big.Int, error) {
	out, err := l.call(ctx, methodBalanceOf, l.from)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected balanceOf result %T", model.ErrLedgerUnavailable, out[0])
	}
	return balance, nil
}

// NativeBalance returns the dispenser balance of the chain currency in wei.
func (l *Ledger) NativeBalance(ctx context.Context) (*big.Int, error) {
	ctx, cancel := l.readContext(ctx)
	defer cancel()

	balance, err := l.client.BalanceAt(ctx, l.from, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: native balance: %w", model.ErrLedgerUnavailable, err)
	}
	return balance, nil
}

// TokenMetadata reads symbol, name and decimals from the token contract.
func (l *Ledger) TokenMetadata(ctx context.Context) (model.TokenMetadata, error) {
	var meta model.TokenMetadata

	out, err := l.call(ctx, methodSymbol)
	if err != nil {
		return meta, err
	}
	meta.Symbol, _ = out[0].(string)

	out, err = l.call(ctx, methodName)
	if err != nil {
		return meta, err
	}
	meta.Name, _ = out[0].(string)

	out, err = l.call(ctx, methodDecimals)
	if err != nil {
		return meta, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return meta, fmt.Errorf("%w: unexpected decimals result %T", model.ErrLedgerUnavailable, out[0])
	}
	meta.Decimals = decimals
	return meta, nil
}

// Transfer signs and broadcasts an ERC-20 transfer of amount raw units to the recipient.
// It returns once the node accepted the transaction; confirmation is not awaited.
// Failures are *model.TransferError; Submitted is set once the signed transaction was handed to the node.
func (l *Ledger) Transfer(ctx context.Context, to string, amount *big.Int) (string, error) {
	if !common.IsHexAddress(to) {
		return "", &model.TransferError{Kind: model.ErrTransferRejected, Reason: "invalid recipient address"}
	}
	recipient := common.HexToAddress(to)
	data, err := l.erc20.Pack(methodTransfer, recipient, amount)
	if err != nil {
		return "", fmt.Errorf("pack transfer: %w", err)
	}

	l.sendMu.Lock()
	defer l.sendMu.Unlock()

	nonce, err := l.client.PendingNonceAt(ctx, l.from)
	if err != nil {
		return "", classify(fmt.Errorf("pending nonce: %w", err), "", false)
	}
	gasPrice, err := l.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", classify(fmt.Errorf("suggest gas price: %w", err), "", false)
	}
	gas, err := l.client.EstimateGas(ctx, ethereum.CallMsg{
		From:     l.from,
		To:       &l.token,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		return "", classify(fmt.Errorf("estimate gas: %w", err), "", false)
	}

	signed, err := types.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &l.token,
		Value:    new(big.Int),
		Data:     data,
	}), l.signer, l.key)
	if err != nil {
		return "", fmt.Errorf("sign transfer: %w", err)
	}
	hash := signed.Hash().Hex()

	if err := l.client.SendTransaction(ctx, signed); err != nil {
		return "", classify(fmt.Errorf("send transaction: %w", err), hash, true)
	}
	l.logger.Debug("transfer broadcast",
		zap.String("tx_hash", hash),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
		zap.String("to", recipient.Hex()),
	)
	return hash, nil
}

func (l *Ledger) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := l.erc20.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	ctx, cancel := l.readContext(ctx)
	defer cancel()

	raw, err := l.client.CallContract(ctx, ethereum.CallMsg{From: l.from, To: &l.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrLedgerUnavailable, method, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s: empty result from %s", model.ErrLedgerUnavailable, method, l.token.Hex())
	}
	out, err := l.erc20.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %w", model.ErrLedgerUnavailable, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned no values", model.ErrLedgerUnavailable, method)
	}
	return out, nil
}

func (l *Ledger) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.rpcTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.rpcTimeout)
}
