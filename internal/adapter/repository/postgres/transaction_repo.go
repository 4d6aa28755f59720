package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/infrastructure/postgres/generated"
)

type transactionPool interface {
	generated.DBTX
	pgxPool
	Ping(context.Context) error
}

// TransactionRepository implements usecase.TransactionStore on PostgreSQL.
// Each caller keeps at most maxPerUser rows; older rows are deleted on append.
type TransactionRepository struct {
	pool       transactionPool
	queries    *generated.Queries
	txManager  *TxManager
	retrier    *Retrier
	maxPerUser int
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool, maxPerUser int, logger zerolog.Logger) *TransactionRepository {
	return newTransactionRepository(pool, maxPerUser, logger)
}

func newTransactionRepository(pool transactionPool, maxPerUser int, logger zerolog.Logger) *TransactionRepository {
	if maxPerUser <= 0 {
		maxPerUser = 1
	}

	return &TransactionRepository{
		pool:       pool,
		queries:    generated.New(pool),
		txManager:  newTxManagerWithPool(pool),
		retrier:    NewRetrier(logger),
		maxPerUser: maxPerUser,
	}
}

// Append inserts tx, trims the caller's oldest rows and returns the new count.
func (r *TransactionRepository) Append(ctx context.Context, userID string, tx *domain.Transaction) (int, error) {
	var total int64

	err := r.retrier.Retry(ctx, func() error {
		return r.txManager.WithinTx(ctx, func(q *generated.Queries) error {
			if err := q.CreateTransaction(ctx, generated.CreateTransactionParams{
				ID:          tx.ID,
				UserID:      userID,
				Amount:      decimalToNumeric(tx.Amount),
				Direction:   string(tx.Direction),
				Description: tx.Description,
				Category:    string(tx.Category),
				Source:      string(tx.Source),
				Institution: tx.Institution,
				NeedsReview: tx.NeedsReview,
				CreatedAt:   timeToPgTimestamptz(tx.Timestamp),
			}); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}

			if _, err := q.TrimTransactions(ctx, generated.TrimTransactionsParams{
				UserID: userID,
				Keep:   int64(r.maxPerUser),
			}); err != nil {
				return fmt.Errorf("trim transactions: %w", err)
			}

			count, err := q.CountTransactions(ctx, userID)
			if err != nil {
				return fmt.Errorf("count transactions: %w", err)
			}
			total = count

			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	return int(total), nil
}

// List returns up to limit transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > r.maxPerUser {
		limit = r.maxPerUser
	}

	rows, err := r.queries.ListTransactions(ctx, generated.ListTransactionsParams{
		UserID: userID,
		Limit:  int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, rowToTransaction(row))
	}

	return txs, nil
}

// Get returns the caller's transaction with the given id.
func (r *TransactionRepository) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, generated.GetTransactionParams{UserID: userID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return rowToTransaction(row), nil
}

// Delete removes the caller's transaction with the given id.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, generated.DeleteTransactionParams{UserID: userID, ID: id})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Count returns how many transactions the caller has.
func (r *TransactionRepository) Count(ctx context.Context, userID string) (int, error) {
	n, err := r.queries.CountTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}

	return int(n), nil
}

// Ping checks the database connection.
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		Timestamp:   row.CreatedAt.Time,
		ID:          row.ID,
		Description: row.Description,
		Institution: row.Institution,
		Amount:      numericToDecimal(row.Amount),
		Direction:   domain.Direction(row.Direction),
		Category:    domain.Category(row.Category),
		Source:      domain.Source(row.Source),
		NeedsReview: row.NeedsReview,
	}
}
