package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/infrastructure/logger"
	"github.com/iho/bachatbox/internal/infrastructure/metrics"
	"github.com/iho/bachatbox/internal/normalizer"
)

// TransactionUseCase handles ingestion and retrieval of normalized transactions.
type TransactionUseCase struct {
	normalizer Normalizer
	store      TransactionStore
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase. m may be nil.
func NewTransactionUseCase(n Normalizer, store TransactionStore, m *metrics.Metrics, logger zerolog.Logger) *TransactionUseCase {
	return &TransactionUseCase{
		normalizer: n,
		store:      store,
		metrics:    m,
		logger:     logger,
	}
}

// IngestInput represents one inbound message for a caller.
type IngestInput struct {
	Hint    *domain.Hint
	UserID  string
	Message string
	Source  domain.Source
}

// IngestResult is the stored transaction and the caller's total afterwards.
type IngestResult struct {
	Transaction *domain.Transaction
	Total       int
}

// Ingest normalizes a message or hint and stores the result for the caller.
// Nothing is stored when normalization fails.
func (uc *TransactionUseCase) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if err := domain.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}

	if input.Hint == nil && strings.TrimSpace(input.Message) == "" {
		return nil, domain.ErrEmptyInput
	}

	if len(input.Message) > domain.MaxMessageLength {
		input.Message = input.Message[:domain.MaxMessageLength]
	}

	source := input.Source
	if source == "" {
		source = domain.SourceSMS
	}

	tx, err := uc.normalizer.Normalize(normalizer.Input{
		Text:   input.Message,
		Hint:   input.Hint,
		Source: source,
	})
	if err != nil {
		uc.recordFailure(source, err)
		logger.FromContext(ctx, uc.logger).Info().
			Str("user_id", input.UserID).
			Str("source", string(source)).
			Err(err).
			Msg("could not normalize transaction")

		return nil, err
	}

	uc.recordSuccess(tx)

	storeCtx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	total, err := uc.store.Append(storeCtx, input.UserID, tx)
	uc.recordStore("append", err)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, uc.logger).Info().
		Str("user_id", input.UserID).
		Str("transaction_id", tx.ID).
		Str("direction", string(tx.Direction)).
		Str("category", string(tx.Category)).
		Bool("needs_review", tx.NeedsReview).
		Int("total", total).
		Msg("transaction stored")

	return &IngestResult{Transaction: tx, Total: total}, nil
}

// List returns the caller's most recent transactions, newest first.
func (uc *TransactionUseCase) List(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	txs, err := uc.store.List(ctx, userID, domain.ValidatePagination(limit))
	uc.recordStore("list", err)

	return txs, err
}

// Get returns one of the caller's transactions.
func (uc *TransactionUseCase) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	tx, err := uc.store.Get(ctx, userID, id)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		uc.recordStore("get", err)
	}

	return tx, err
}

// Delete removes one of the caller's transactions.
func (uc *TransactionUseCase) Delete(ctx context.Context, userID, id string) error {
	if err := domain.ValidateUserID(userID); err != nil {
		return err
	}

	err := uc.store.Delete(ctx, userID, id)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		uc.recordStore("delete", err)
	}

	return err
}

// Summary aggregates the caller's most recent transactions.
func (uc *TransactionUseCase) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}

	txs, err := uc.store.List(ctx, userID, SummaryWindow)
	uc.recordStore("list", err)
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(txs)

	return &summary, nil
}

func (uc *TransactionUseCase) recordSuccess(tx *domain.Transaction) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.Normalizations.WithLabelValues(string(tx.Source), "ok").Inc()
	direction := string(tx.Direction)
	if !tx.Direction.IsValid() {
		direction = "unknown"
	}
	uc.metrics.Directions.WithLabelValues(direction).Inc()
	uc.metrics.Categories.WithLabelValues(string(tx.Category)).Inc()
	uc.metrics.TransactionAmount.Observe(tx.Amount.InexactFloat64())

	if tx.NeedsReview {
		uc.metrics.AmbiguousDirections.Inc()
	}
}

func (uc *TransactionUseCase) recordFailure(source domain.Source, err error) {
	if uc.metrics == nil {
		return
	}

	outcome := "error"
	switch {
	case errors.Is(err, domain.ErrNoAmountFound):
		outcome = "no_amount"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidDirection):
		outcome = "invalid_hint"
	}

	uc.metrics.Normalizations.WithLabelValues(string(source), outcome).Inc()
}

func (uc *TransactionUseCase) recordStore(operation string, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.StoreOperations.WithLabelValues(operation).Inc()
	if err != nil {
		uc.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}
