package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/bachatbox/internal/domain"
)

// TransactionStore implements usecase.TransactionStore on Redis lists.
// Each caller owns one list, newest first, trimmed to maxPerUser entries and
// expired ttl after its last write.
type TransactionStore struct {
	client     *redis.Client
	prefix     string
	maxPerUser int
	ttl        time.Duration
}

// NewTransactionStore creates a new TransactionStore. A zero ttl disables expiry.
func NewTransactionStore(client *redis.Client, maxPerUser int, ttl time.Duration) *TransactionStore {
	if maxPerUser <= 0 {
		maxPerUser = 1
	}

	return &TransactionStore{
		client:     client,
		prefix:     "transactions:",
		maxPerUser: maxPerUser,
		ttl:        ttl,
	}
}

type storedTransaction struct {
	Timestamp   time.Time `json:"timestamp"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Institution string    `json:"institution"`
	Amount      string    `json:"amount"`
	Direction   string    `json:"direction"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	NeedsReview bool      `json:"needsReview,omitempty"`
}

func encodeTransaction(tx *domain.Transaction) ([]byte, error) {
	return json.Marshal(storedTransaction{
		Timestamp:   tx.Timestamp,
		ID:          tx.ID,
		Description: tx.Description,
		Institution: tx.Institution,
		Amount:      tx.Amount.String(),
		Direction:   string(tx.Direction),
		Category:    string(tx.Category),
		Source:      string(tx.Source),
		NeedsReview: tx.NeedsReview,
	})
}

func decodeTransaction(raw string) (*domain.Transaction, error) {
	var st storedTransaction
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	amount, err := decimal.NewFromString(st.Amount)
	if err != nil {
		return nil, fmt.Errorf("decode amount %q: %w", st.Amount, err)
	}

	return &domain.Transaction{
		Timestamp:   st.Timestamp,
		ID:          st.ID,
		Description: st.Description,
		Institution: st.Institution,
		Amount:      amount,
		Direction:   domain.Direction(st.Direction),
		Category:    domain.Category(st.Category),
		Source:      domain.Source(st.Source),
		NeedsReview: st.NeedsReview,
	}, nil
}

func (s *TransactionStore) key(userID string) string {
	return s.prefix + userID
}

// Append pushes tx to the head of the caller's list and trims the tail.
func (s *TransactionStore) Append(ctx context.Context, userID string, tx *domain.Transaction) (int, error) {
	payload, err := encodeTransaction(tx)
	if err != nil {
		return 0, err
	}

	key := s.key(userID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(s.maxPerUser-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	length := pipe.LLen(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("append transaction: %w", err)
	}

	return int(length.Val()), nil
}

// List returns up to limit transactions, newest first.
func (s *TransactionStore) List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := s.client.LRange(ctx, s.key(userID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]*domain.Transaction, 0, len(raw))
	for _, item := range raw {
		tx, err := decodeTransaction(item)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// Get returns the caller's transaction with the given id.
func (s *TransactionStore) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	tx, _, err := s.find(ctx, userID, id)
	return tx, err
}

// Delete removes the caller's transaction with the given id.
func (s *TransactionStore) Delete(ctx context.Context, userID, id string) error {
	_, raw, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}

	removed, err := s.client.LRem(ctx, s.key(userID), 1, raw).Result()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if removed == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Count returns the length of the caller's list.
func (s *TransactionStore) Count(ctx context.Context, userID string) (int, error) {
	n, err := s.client.LLen(ctx, s.key(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("count transactions: %w", err)
	}

	return int(n), nil
}

// Ping checks the Redis connection.
func (s *TransactionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *TransactionStore) find(ctx context.Context, userID, id string) (*domain.Transaction, string, error) {
	raw, err := s.client.LRange(ctx, s.key(userID), 0, -1).Result()
	if err != nil {
		return nil, "", fmt.Errorf("find transaction: %w", err)
	}

	for _, item := range raw {
		tx, err := decodeTransaction(item)
		if err != nil {
			return nil, "", err
		}
		if tx.ID == id {
			return tx, item, nil
		}
	}

	return nil, "", domain.ErrTransactionNotFound
}
