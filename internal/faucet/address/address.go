// Package address validates and normalizes EVM wallet addresses.
package address

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Length is the length of a canonical address including the 0x prefix.
const Length = 2 + 2*common.AddressLength

// Validate reports whether input is a 0x-prefixed, 40 hex digit address.
// Mixed-case (checksummed) and single-case forms are both accepted.
func Validate(input string) bool {
	if len(input) != Length {
		return false
	}
	if input[0] != '0' || (input[1] != 'x' && input[1] != 'X') {
		return false
	}
	return common.IsHexAddress(input)
}

// Normalize lower-cases an address so that lookups are case-insensitive.
func Normalize(input string) string {
	return strings.ToLower(input)
}
