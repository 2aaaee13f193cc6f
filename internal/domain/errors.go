package domain

import "errors"

var (
	// Ledger lookup errors
	ErrSecurityNotFound = errors.New("security not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrSnapshotNotFound = errors.New("price snapshot not found")

	// Holding errors
	ErrZeroShares = errors.New("holding reports zero shares")

	// Scrape errors
	ErrOddHoldingsRow = errors.New("holdings table has an unpaired trailing row")
	ErrSessionGone    = errors.New("browser session window gone")
	ErrWaitTimeout    = errors.New("timed out waiting for element")
	ErrNoSuchElement  = errors.New("element not found")
)
