package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/usecase"
)

// ParsedTransaction carries fields a client already extracted itself.
type ParsedTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	BankName    string          `json:"bankName,omitempty"`
}

// IngestRequest is the body of the interactive and webhook endpoints.
// UserID is only honoured by the webhook.
type IngestRequest struct {
	Message string             `json:"message,omitempty"`
	Parsed  *ParsedTransaction `json:"parsed,omitempty"`
	UserID  string             `json:"userId,omitempty"`
}

// ToUseCaseInput converts to use case input for the given caller.
func (r *IngestRequest) ToUseCaseInput(userID string) usecase.IngestInput {
	input := usecase.IngestInput{
		UserID:  userID,
		Message: r.Message,
		Source:  domain.SourceSMS,
	}

	if r.Parsed != nil {
		input.Hint = &domain.Hint{
			Amount:      r.Parsed.Amount,
			Direction:   domain.ParseDirection(r.Parsed.Type),
			Description: r.Parsed.Description,
			Category:    domain.Category(r.Parsed.Category),
			Institution: r.Parsed.BankName,
		}
	}

	return input
}
