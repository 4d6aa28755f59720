package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a transaction adds to or takes from a balance.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// IsValid reports whether d is one of the two known directions.
func (d Direction) IsValid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Category is a label from the fixed category vocabulary.
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryTransport  Category = "Transport"
	CategoryGroceries  Category = "Groceries"
	CategoryHealthcare Category = "Healthcare"
	CategoryIncome     Category = "Income"
	CategoryPayment    Category = "Payment"
	CategoryOther      Category = "Other"
)

// Source identifies the channel a transaction arrived through. Display only.
type Source string

const (
	SourceSMS     Source = "sms"
	SourceReceipt Source = "receipt"
)

// DefaultInstitution labels transactions whose bank could not be identified.
const DefaultInstitution = "Bank"

// Placeholder descriptions used when no counterparty could be extracted.
const (
	DescriptionMoneyReceived = "Money Received"
	DescriptionPaymentMade   = "Payment Made"
)

// FallbackDescription returns the generic description for a direction.
func FallbackDescription(d Direction) string {
	if d == DirectionIncome {
		return DescriptionMoneyReceived
	}

	return DescriptionPaymentMade
}

// Transaction is a single normalized income or expense record.
// It is created once and never mutated afterwards.
type Transaction struct {
	Timestamp   time.Time
	ID          string
	Description string
	Institution string
	Amount      decimal.Decimal
	Direction   Direction
	Category    Category
	Source      Source
	// NeedsReview is set when the text carried both income and expense cues.
	NeedsReview bool
}

// Hint is a caller-supplied, already parsed transaction.
type Hint struct {
	Amount      decimal.Decimal
	Direction   Direction
	Description string
	Category    Category
	Institution string
}

// Summary aggregates a caller's stored transactions.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
	Categories   []CategoryTotal
	Count        int
	NeedsReview  int
}

// CategoryTotal is the expense total of one category and its share of all expenses.
type CategoryTotal struct {
	Category   Category
	Total      decimal.Decimal
	Percentage decimal.Decimal
	Count      int
}
