package normalizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// number matches digits with optional thousands (or lakh) separators and up to two decimals.
const number = `(\d+(?:,\d{2,3})*(?:\.\d{1,2})?)`

type amountRule struct {
	name    string
	pattern *regexp.Regexp
}

// amountRules are tried in order; the first rule that matches decides the amount.
var amountRules = []amountRule{
	{name: "verb", pattern: regexp.MustCompile(`(?i)(?:debited|credited)\s+by\s+` + number)},
	{name: "currency", pattern: regexp.MustCompile(`(?i)(?:Rs\.?|INR|₹)\s*` + number)},
	{name: "decimal", pattern: regexp.MustCompile(`(\d+\.\d{1,2})`)},
}

// extractAmount returns the first amount found by the rule cascade and the rule that found it.
// A zero amount counts as not found.
func extractAmount(text string) (decimal.Decimal, string, bool) {
	for _, rule := range amountRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil || !amount.IsPositive() {
			return decimal.Zero, rule.name, false
		}

		return amount, rule.name, true
	}

	return decimal.Zero, "", false
}
