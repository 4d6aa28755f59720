package usecase

import (
	"context"
	"time"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/normalizer"
)

// TransactionStore keeps normalized transactions per caller.
// Implementations enforce their own retention policy; Append reports the caller's new total.
type TransactionStore interface {
	Append(ctx context.Context, userID string, tx *domain.Transaction) (int, error)
	List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error)
	Get(ctx context.Context, userID, id string) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	Count(ctx context.Context, userID string) (int, error)
}

// Normalizer converts raw messages or hints into transactions.
type Normalizer interface {
	Normalize(in normalizer.Input) (*domain.Transaction, error)
}

// ReceiptExtractor reads a receipt image into a structured hint.
type ReceiptExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (*domain.Hint, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}
