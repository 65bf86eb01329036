package service

import (
	"fmt"
	"math"
	"time"
)

const (
	msgClaimSent         = "Tokens sent successfully!"
	msgInvalidAddress    = "Invalid Ethereum address"
	msgFaucetEmpty       = "Faucet is empty. Please contact the administrator."
	msgInsufficientGas   = "Insufficient funds for gas fees"
	msgLedgerUnavailable = "The network is unavailable. Please try again later."
	msgTransferTimeout   = "The transfer timed out. It may still be processed, check your wallet before retrying."
	msgStoreUnavailable  = "Claim history is temporarily unavailable. Please try again later."
	msgInternal          = "Failed to send tokens"
	msgTransferRejected  = "The transfer was rejected by the network. Please try again later."
)

// DescribeCooldown renders a cooldown window for humans, e.g. "24 hours".
func DescribeCooldown(d time.Duration) string {
	if d > 0 && d%time.Hour == 0 {
		return pluralHours(int64(d / time.Hour))
	}
	if d > 0 && d%time.Minute == 0 {
		minutes := int64(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}

func cooldownMessage(cooldown time.Duration, now, next time.Time) string {
	hoursLeft := int64(math.Ceil(next.Sub(now).Hours()))
	if hoursLeft < 1 {
		hoursLeft = 1
	}
	return fmt.Sprintf(
		"You can only claim once per %s. Please try again in %s.",
		DescribeCooldown(cooldown),
		pluralHours(hoursLeft),
	)
}

func pluralHours(h int64) string {
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}
