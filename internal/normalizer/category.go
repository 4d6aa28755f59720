package normalizer

import (
	"strings"

	"github.com/iho/bachatbox/internal/domain"
)

type categoryRule struct {
	category domain.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{category: domain.CategoryFood, keywords: []string{"food", "restaurant", "zomato", "swiggy"}},
	{category: domain.CategoryTransport, keywords: []string{"fuel", "petrol", "diesel"}},
	{category: domain.CategoryGroceries, keywords: []string{"grocery", "supermarket"}},
	{category: domain.CategoryHealthcare, keywords: []string{"medicine", "pharmacy"}},
}

// inferCategory applies the keyword rules to lower-cased text, falling back on the direction.
func inferCategory(lower string, dir domain.Direction) domain.Category {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}

	if dir == domain.DirectionIncome {
		return domain.CategoryIncome
	}

	return domain.CategoryPayment
}
