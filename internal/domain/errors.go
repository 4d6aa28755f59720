package domain

import "errors"

var (
	// Normalization errors
	ErrNoAmountFound    = errors.New("no amount found in message")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDirection = errors.New("direction must be income or expense")
	ErrEmptyInput       = errors.New("either message or parsed transaction data is required")

	// Receipt errors
	ErrReceiptUnreadable  = errors.New("could not extract reliable data from receipt")
	ErrReceiptUnsupported = errors.New("receipt extraction is not configured")

	// Store errors
	ErrTransactionNotFound = errors.New("transaction not found")

	// Caller errors
	ErrMissingIdentity = errors.New("missing caller identity")
)
