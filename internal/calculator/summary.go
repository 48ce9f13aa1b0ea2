// Package calculator computes net worth aggregates for a group's items.
//
// All arithmetic uses decimal values so totals match what a user would add up
// by hand. Functions here are pure; callers are responsible for passing only
// the items of one group.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wealthwise/internal/models"
)

// CategoryTotal is the aggregate of a group's assets in one category.
type CategoryTotal struct {
	Category   models.AssetCategory
	TotalValue decimal.Decimal
	Count      int
}

// LiabilityLine is one liability as shown in the summary.
type LiabilityLine struct {
	Name        string
	Value       decimal.Decimal
	Description string
}

// Summary holds the totals for a set of items.
type Summary struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal

	// AssetsByCategory has one entry per category that has at least one
	// asset, ordered by category code.
	AssetsByCategory []CategoryTotal

	// Liabilities lists every liability ordered by name.
	Liabilities []LiabilityLine
}

// Summarize totals items into a Summary.
//
// Net worth is assets minus liabilities and may be negative.
func Summarize(items []*models.NetWorthItem) Summary {
	s := Summary{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}

	byCategory := make(map[models.AssetCategory]*CategoryTotal)
	for _, item := range items {
		switch item.Type {
		case models.ItemTypeAsset:
			s.TotalAssets = s.TotalAssets.Add(item.Value)
			ct, ok := byCategory[item.AssetCategory]
			if !ok {
				ct = &CategoryTotal{Category: item.AssetCategory, TotalValue: decimal.Zero}
				byCategory[item.AssetCategory] = ct
			}
			ct.TotalValue = ct.TotalValue.Add(item.Value)
			ct.Count++
		case models.ItemTypeLiability:
			s.TotalLiabilities = s.TotalLiabilities.Add(item.Value)
			s.Liabilities = append(s.Liabilities, LiabilityLine{
				Name:        item.Name,
				Value:       item.Value,
				Description: item.Description,
			})
		}
	}
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)

	s.AssetsByCategory = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		s.AssetsByCategory = append(s.AssetsByCategory, *ct)
	}
	sort.Slice(s.AssetsByCategory, func(i, j int) bool {
		return s.AssetsByCategory[i].Category < s.AssetsByCategory[j].Category
	})
	sort.SliceStable(s.Liabilities, func(i, j int) bool {
		return s.Liabilities[i].Name < s.Liabilities[j].Name
	})

	return s
}
