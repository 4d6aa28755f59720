package normalizer

import (
	"strings"

	"github.com/iho/bachatbox/internal/domain"
)

var (
	incomeKeywords  = []string{"credited", "received", "deposit"}
	expenseKeywords = []string{"debited", "paid", "withdrawn"}
)

// classifyDirection scans lower-cased text for direction cues.
// When both income and expense cues occur, the earliest cue in the text decides
// and the result is marked ambiguous. Without any cue the transaction is an expense.
func classifyDirection(lower string) (domain.Direction, bool) {
	income := firstIndex(lower, incomeKeywords)
	expense := firstIndex(lower, expenseKeywords)

	switch {
	case income < 0 && expense < 0:
		return domain.DirectionExpense, false
	case expense < 0:
		return domain.DirectionIncome, false
	case income < 0:
		return domain.DirectionExpense, false
	case income < expense:
		return domain.DirectionIncome, true
	default:
		return domain.DirectionExpense, true
	}
}

// firstIndex returns the lowest index at which any keyword occurs, or -1.
func firstIndex(s string, keywords []string) int {
	first := -1
	for _, kw := range keywords {
		if i := strings.Index(s, kw); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}

	return first
}
