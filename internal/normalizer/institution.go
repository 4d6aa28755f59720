package normalizer

import (
	"strings"

	"github.com/iho/bachatbox/internal/domain"
)

type institutionRule struct {
	marker string
	label  string
}

// Markers are matched case-sensitively, in order.
var institutionRules = []institutionRule{
	{marker: "-SBI", label: "SBI"},
	{marker: "HDFC", label: "HDFC"},
	{marker: "ICICI", label: "ICICI"},
	{marker: "AXIS", label: "Axis"},
}

func extractInstitution(text string) string {
	for _, rule := range institutionRules {
		if strings.Contains(text, rule.marker) {
			return rule.label
		}
	}

	return domain.DefaultInstitution
}
