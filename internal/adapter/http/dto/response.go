package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bachatbox/internal/domain"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Timestamp   time.Time       `json:"timestamp"`
	Source      string          `json:"source"`
	BankName    string          `json:"bankName"`
	NeedsReview bool            `json:"needsReview,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Type:        string(tx.Direction),
		Description: tx.Description,
		Category:    string(tx.Category),
		Timestamp:   tx.Timestamp,
		Source:      string(tx.Source),
		BankName:    tx.Institution,
		NeedsReview: tx.NeedsReview,
	}
}

// TransactionsFromDomain converts a slice of domain transactions.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// IngestResponse is returned after a transaction has been stored.
type IngestResponse struct {
	Success           bool                 `json:"success"`
	Transaction       *TransactionResponse `json:"transaction"`
	Message           string               `json:"message"`
	TotalTransactions int                  `json:"totalTransactions"`
}

// TransactionResponseEnvelope wraps a single transaction lookup.
type TransactionResponseEnvelope struct {
	Success     bool                 `json:"success"`
	Transaction *TransactionResponse `json:"transaction"`
}

// ListTransactionsResponse represents a list of transactions.
type ListTransactionsResponse struct {
	Success      bool                   `json:"success"`
	Transactions []*TransactionResponse `json:"transactions"`
	Count        int                    `json:"count"`
}

// CategoryTotalResponse is one slice of the expense breakdown.
type CategoryTotalResponse struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// SummaryResponse represents the dashboard totals.
type SummaryResponse struct {
	Success      bool                    `json:"success"`
	TotalIncome  decimal.Decimal         `json:"totalIncome"`
	TotalExpense decimal.Decimal         `json:"totalExpense"`
	Net          decimal.Decimal         `json:"net"`
	Categories   []CategoryTotalResponse `json:"categories"`
	Count        int                     `json:"count"`
	NeedsReview  int                     `json:"needsReview"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s *domain.Summary) *SummaryResponse {
	categories := make([]CategoryTotalResponse, len(s.Categories))
	for i, c := range s.Categories {
		categories[i] = CategoryTotalResponse{
			Category:   string(c.Category),
			Total:      c.Total,
			Percentage: c.Percentage,
			Count:      c.Count,
		}
	}

	return &SummaryResponse{
		Success:      true,
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Net:          s.Net,
		Categories:   categories,
		Count:        s.Count,
		NeedsReview:  s.NeedsReview,
	}
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
