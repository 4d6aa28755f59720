package usecase

import "time"

const (
	// DefaultStoreTimeout bounds a single store round trip.
	DefaultStoreTimeout = 5 * time.Second

	// DefaultReceiptTimeout bounds a receipt extraction call.
	DefaultReceiptTimeout = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request runs.
	IdempotencyPending = "processing"

	// SummaryWindow is the number of most recent transactions a summary covers.
	SummaryWindow = 1000
)

// IsIdempotencyPending reports whether a cached value is the in-flight marker.
func IsIdempotencyPending(value []byte) bool {
	return string(value) == IdempotencyPending
}
