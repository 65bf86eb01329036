package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20ABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"symbol","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"name","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"string"}]}
]`

const (
	methodTransfer  = "transfer"
	methodBalanceOf = "balanceOf"
	methodDecimals  = "decimals"
	methodSymbol    = "symbol"
	methodName      = "name"
)

func parseERC20() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(erc20ABI))
}
