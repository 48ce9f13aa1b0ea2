package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wealthwise/internal/models"
)

func item(t models.ItemType, cat models.AssetCategory, name, value string) *models.NetWorthItem {
	return &models.NetWorthItem{
		GroupID:       "g1",
		Name:          name,
		Value:         decimal.RequireFromString(value),
		Type:          t,
		AssetCategory: cat,
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		items        []*models.NetWorthItem
		wantAssets   string
		wantLiabs    string
		wantNetWorth string
		validateFunc func(t *testing.T, s Summary)
	}{
		{
			name:         "empty group",
			items:        nil,
			wantAssets:   "0.00",
			wantLiabs:    "0.00",
			wantNetWorth: "0.00",
			validateFunc: func(t *testing.T, s Summary) {
				if len(s.AssetsByCategory) != 0 {
					t.Errorf("AssetsByCategory = %v, want empty", s.AssetsByCategory)
				}
			},
		},
		{
			name: "single asset",
			items: []*models.NetWorthItem{
				item(models.ItemTypeAsset, models.CategorySavings, "Cash", "500.00"),
			},
			wantAssets:   "500.00",
			wantLiabs:    "0.00",
			wantNetWorth: "500.00",
		},
		{
			name: "categories ordered by code with counts",
			items: []*models.NetWorthItem{
				item(models.ItemTypeAsset, models.CategorySavings, "Cash", "100.10"),
				item(models.ItemTypeAsset, models.CategoryInvestments, "ETF", "2000.00"),
				item(models.ItemTypeAsset, models.CategorySavings, "Deposit", "0.20"),
				item(models.ItemTypeLiability, "", "Mortgage", "1000.00"),
				item(models.ItemTypeLiability, "", "Card", "50.25"),
			},
			wantAssets:   "2100.30",
			wantLiabs:    "1050.25",
			wantNetWorth: "1050.05",
			validateFunc: func(t *testing.T, s Summary) {
				if len(s.AssetsByCategory) != 2 {
					t.Fatalf("AssetsByCategory has %d entries, want 2", len(s.AssetsByCategory))
				}
				first, second := s.AssetsByCategory[0], s.AssetsByCategory[1]
				if first.Category != models.CategoryInvestments || first.Count != 1 {
					t.Errorf("first category = %+v, want INVESTMENTS x1", first)
				}
				if second.Category != models.CategorySavings || second.Count != 2 {
					t.Errorf("second category = %+v, want SAVINGS x2", second)
				}
				if got := second.TotalValue.StringFixed(2); got != "100.30" {
					t.Errorf("SAVINGS total = %s, want 100.30", got)
				}
				if len(s.Liabilities) != 2 || s.Liabilities[0].Name != "Card" {
					t.Errorf("Liabilities = %+v, want ordered by name", s.Liabilities)
				}
			},
		},
		{
			name: "negative net worth",
			items: []*models.NetWorthItem{
				item(models.ItemTypeAsset, models.CategoryProperty, "Car", "10.00"),
				item(models.ItemTypeLiability, "", "Loan", "25.50"),
			},
			wantAssets:   "10.00",
			wantLiabs:    "25.50",
			wantNetWorth: "-15.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.items)
			if got := s.TotalAssets.StringFixed(2); got != tt.wantAssets {
				t.Errorf("TotalAssets = %s, want %s", got, tt.wantAssets)
			}
			if got := s.TotalLiabilities.StringFixed(2); got != tt.wantLiabs {
				t.Errorf("TotalLiabilities = %s, want %s", got, tt.wantLiabs)
			}
			if got := s.NetWorth.StringFixed(2); got != tt.wantNetWorth {
				t.Errorf("NetWorth = %s, want %s", got, tt.wantNetWorth)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, s)
			}
		})
	}
}

func TestComputeRatios(t *testing.T) {
	tests := []struct {
		name       string
		assets     string
		liabs      string
		wantRatio  string
		wantStatus string
	}{
		{"no assets", "0", "100", "0.00", StatusNoAssets},
		{"no debt", "100", "0", "0.00", StatusExcellent},
		{"exactly 30 percent", "100", "30", "30.00", StatusExcellent},
		{"just above 30 percent", "100", "30.01", "30.01", StatusGood},
		{"exactly 50 percent", "200", "100", "50.00", StatusGood},
		{"fair", "100", "70", "70.00", StatusFair},
		{"needs attention", "100", "150", "150.00", StatusNeedsAttention},
		{"rounded to two places", "3", "1", "33.33", StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := decimal.RequireFromString(tt.assets)
			liabs := decimal.RequireFromString(tt.liabs)
			r := ComputeRatios(Summary{
				TotalAssets:      assets,
				TotalLiabilities: liabs,
				NetWorth:         assets.Sub(liabs),
			})
			if got := r.DebtToAssetRatio.StringFixed(2); got != tt.wantRatio {
				t.Errorf("DebtToAssetRatio = %s, want %s", got, tt.wantRatio)
			}
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tt.wantStatus)
			}
			if !r.NetWorth.Equal(assets.Sub(liabs)) {
				t.Errorf("NetWorth = %s, want %s", r.NetWorth, assets.Sub(liabs))
			}
		})
	}
}
