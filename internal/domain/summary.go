package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summarize aggregates transactions into dashboard totals.
// Category shares are computed over expenses only and rounded to two places.
func Summarize(txs []*Transaction) Summary {
	s := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	byCategory := make(map[Category]*CategoryTotal)

	for _, tx := range txs {
		s.Count++
		if tx.NeedsReview {
			s.NeedsReview++
		}

		if tx.Direction == DirectionIncome {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			continue
		}

		s.TotalExpense = s.TotalExpense.Add(tx.Amount)

		ct, ok := byCategory[tx.Category]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category, Total: decimal.Zero}
			byCategory[tx.Category] = ct
		}
		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++
	}

	s.Net = s.TotalIncome.Sub(s.TotalExpense)

	s.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if s.TotalExpense.IsPositive() {
			ct.Percentage = ct.Total.Mul(hundred).Div(s.TotalExpense).Round(2)
		} else {
			ct.Percentage = decimal.Zero
		}
		s.Categories = append(s.Categories, *ct)
	}

	sort.Slice(s.Categories, func(i, j int) bool {
		if !s.Categories[i].Total.Equal(s.Categories[j].Total) {
			return s.Categories[i].Total.GreaterThan(s.Categories[j].Total)
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	return s
}
