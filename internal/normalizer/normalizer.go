// Package normalizer turns free-text bank notifications or caller-supplied hints into
// canonical transactions. A Normalizer holds no mutable state and is safe for concurrent use.
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/iho/bachatbox/internal/domain"
)

// Input is one message to normalize: either raw text or a structured hint.
// When Hint is set the text is ignored.
type Input struct {
	Text   string
	Hint   *domain.Hint
	Source domain.Source
}

// Normalizer converts inputs into transactions.
type Normalizer struct {
	idGen       IDGenerator
	now         func() time.Time
	strictHints bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithIDGenerator overrides the default ULID generator. IDs are prefixed with the source.
func WithIDGenerator(g IDGenerator) Option {
	return func(n *Normalizer) { n.idGen = g }
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithStrictHints makes the hint path validate amount and direction.
func WithStrictHints(strict bool) Option {
	return func(n *Normalizer) { n.strictHints = strict }
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		idGen: NewULIDGenerator(),
		now:   func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize produces exactly one transaction from in, or an error.
// Text input without a positive amount fails with domain.ErrNoAmountFound.
func (n *Normalizer) Normalize(in Input) (*domain.Transaction, error) {
	source := in.Source
	if source == "" {
		source = domain.SourceSMS
	}

	if in.Hint != nil {
		return n.fromHint(*in.Hint, source)
	}

	return n.fromText(in.Text, source)
}

func (n *Normalizer) fromText(text string, source domain.Source) (*domain.Transaction, error) {
	amount, _, ok := extractAmount(text)
	if !ok {
		return nil, domain.ErrNoAmountFound
	}

	lower := strings.ToLower(text)
	direction, ambiguous := classifyDirection(lower)
	institution := extractInstitution(text)

	counterparty, ok := extractCounterparty(text)
	if !ok {
		counterparty = domain.FallbackDescription(direction)
	}

	return n.assemble(&domain.Transaction{
		Amount:      amount,
		Direction:   direction,
		Description: fmt.Sprintf("%s (%s)", counterparty, institution),
		Category:    inferCategory(lower, direction),
		Institution: institution,
		NeedsReview: ambiguous,
	}, source), nil
}

func (n *Normalizer) fromHint(h domain.Hint, source domain.Source) (*domain.Transaction, error) {
	if n.strictHints {
		if err := domain.ValidateAmount(h.Amount); err != nil {
			return nil, err
		}
		if err := domain.ValidateDirection(h.Direction); err != nil {
			return nil, err
		}
	}

	description := strings.TrimSpace(h.Description)
	if description == "" {
		description = domain.FallbackDescription(h.Direction)
	}

	institution := strings.TrimSpace(h.Institution)
	if institution == "" {
		institution = domain.DefaultInstitution
	}

	return n.assemble(&domain.Transaction{
		Amount:      h.Amount,
		Direction:   h.Direction,
		Description: description,
		Category:    domain.ParseCategory(string(h.Category)),
		Institution: institution,
	}, source), nil
}

func (n *Normalizer) assemble(tx *domain.Transaction, source domain.Source) *domain.Transaction {
	tx.ID = string(source) + "_" + n.idGen.Generate()
	tx.Timestamp = n.now()
	tx.Source = source

	return tx
}
