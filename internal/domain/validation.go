package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxUserIDLength      = 128
	MaxDescriptionLength = 512
	MaxMessageLength     = 2048
	MaxTransactionAmount = "1000000000000" // 1 trillion
)

var knownCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryGroceries,
	CategoryHealthcare,
	CategoryIncome,
	CategoryPayment,
	CategoryOther,
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransactionAmount)
	}

	return nil
}

// ParseDirection converts the wire value ("income"/"expense", any case) to a Direction.
// Unknown values are returned as-is so that callers decide whether to reject them.
func ParseDirection(s string) Direction {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if d.IsValid() {
		return d
	}

	return Direction(strings.TrimSpace(s))
}

// ValidateDirection validates a transaction direction.
func ValidateDirection(d Direction) error {
	if !d.IsValid() {
		return fmt.Errorf("%w: got %q", ErrInvalidDirection, d)
	}

	return nil
}

// ParseCategory maps a label onto the known vocabulary ignoring case.
// Empty labels and labels outside the vocabulary yield CategoryOther.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther
	}

	for _, c := range knownCategories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}

	return CategoryOther
}

// ValidateUserID validates a caller identifier.
func ValidateUserID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingIdentity
	}

	if len(id) > MaxUserIDLength {
		return fmt.Errorf("%w: identifier exceeds %d characters", ErrMissingIdentity, MaxUserIDLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit int) int {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		return DefaultPageSize
	}

	if limit > MaxPageSize {
		return MaxPageSize
	}

	return limit
}
