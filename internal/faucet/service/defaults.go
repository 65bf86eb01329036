package service

import "time"

const (
	readAttempts = 3
	readBackoff  = 200 * time.Millisecond

	recordTimeout = 10 * time.Second

	defaultStoreTimeout      = 5 * time.Second
	defaultLedgerReadTimeout = 10 * time.Second

	defaultHistoryLimit = 10
	defaultRecentLimit  = 20
	defaultMaxLimit     = 100
)
