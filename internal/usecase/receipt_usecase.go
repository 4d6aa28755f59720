package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/infrastructure/metrics"
)

// MaxReceiptSize is the largest receipt image accepted, in bytes.
const MaxReceiptSize = 10 << 20

// ReceiptUseCase turns receipt images into stored transactions.
type ReceiptUseCase struct {
	extractor    ReceiptExtractor
	transactions *TransactionUseCase
	metrics      *metrics.Metrics
}

// NewReceiptUseCase creates a new ReceiptUseCase. A nil extractor disables receipts.
func NewReceiptUseCase(extractor ReceiptExtractor, transactions *TransactionUseCase, m *metrics.Metrics) *ReceiptUseCase {
	return &ReceiptUseCase{
		extractor:    extractor,
		transactions: transactions,
		metrics:      m,
	}
}

// IngestReceiptInput represents an uploaded receipt image.
type IngestReceiptInput struct {
	UserID   string
	MIMEType string
	Image    []byte
}

// Enabled reports whether receipt extraction is configured.
func (uc *ReceiptUseCase) Enabled() bool {
	return uc.extractor != nil
}

// Ingest extracts a hint from the image and stores it as a receipt transaction.
func (uc *ReceiptUseCase) Ingest(ctx context.Context, input IngestReceiptInput) (*IngestResult, error) {
	if uc.extractor == nil {
		return nil, domain.ErrReceiptUnsupported
	}

	if err := domain.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}

	if len(input.Image) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrReceiptUnreadable)
	}

	if len(input.Image) > MaxReceiptSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrReceiptUnreadable, MaxReceiptSize)
	}

	extractCtx, cancel := context.WithTimeout(ctx, DefaultReceiptTimeout)
	defer cancel()

	start := time.Now()
	hint, err := uc.extractor.Extract(extractCtx, input.Image, input.MIMEType)
	uc.record(start, err)
	if err != nil {
		return nil, err
	}

	return uc.transactions.Ingest(ctx, IngestInput{
		UserID: input.UserID,
		Hint:   hint,
		Source: domain.SourceReceipt,
	})
}

func (uc *ReceiptUseCase) record(start time.Time, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.ReceiptDuration.Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	uc.metrics.ReceiptExtractions.WithLabelValues(outcome).Inc()
}
