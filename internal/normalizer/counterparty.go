package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iho/bachatbox/internal/domain"
)

// Each pattern captures from its anchor phrase up to the next reference-number anchor or the end.
var counterpartyRules = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\btrf to\s+(.+?)(?:\s+Ref|$)`),
	regexp.MustCompile(`(?is)\bpaid to\s+(.+?)(?:\s+Ref|$)`),
	regexp.MustCompile(`(?is)\bfrom\s+(.+?)(?:\s+Ref|$)`),
}

// extractCounterparty returns the first non-empty capture of the counterparty cascade.
func extractCounterparty(text string) (string, bool) {
	for _, rule := range counterpartyRules {
		m := rule.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		name := strings.Join(strings.Fields(m[1]), " ")
		if name == "" {
			continue
		}

		return truncate(name, domain.MaxDescriptionLength), true
	}

	return "", false
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	return string([]rune(s)[:max])
}
