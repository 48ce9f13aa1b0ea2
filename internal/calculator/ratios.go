package calculator

import "github.com/shopspring/decimal"

// Financial health statuses derived from the debt-to-asset ratio.
const (
	StatusNoAssets       = "No Assets"
	StatusExcellent      = "Excellent"
	StatusGood           = "Good"
	StatusFair           = "Fair"
	StatusNeedsAttention = "Needs Attention"
)

var (
	hundred        = decimal.NewFromInt(100)
	excellentLimit = decimal.NewFromInt(30)
	goodLimit      = decimal.NewFromInt(50)
	fairLimit      = decimal.NewFromInt(70)
)

// Ratios describes the financial health of a group.
type Ratios struct {
	// DebtToAssetRatio is liabilities / assets as a percentage, rounded to
	// two decimal places. Zero when there are no assets.
	DebtToAssetRatio decimal.Decimal
	Status           string
	NetWorth         decimal.Decimal
}

// ComputeRatios derives the debt-to-asset ratio and health status from s.
//
// Thresholds are inclusive: up to 30% is Excellent, up to 50% Good,
// up to 70% Fair, anything above Needs Attention.
func ComputeRatios(s Summary) Ratios {
	r := Ratios{NetWorth: s.NetWorth}

	if s.TotalAssets.IsZero() {
		r.DebtToAssetRatio = decimal.Zero
		r.Status = StatusNoAssets
		return r
	}

	// The status is decided on the unrounded ratio.
	ratio := s.TotalLiabilities.Div(s.TotalAssets).Mul(hundred)
	switch {
	case ratio.LessThanOrEqual(excellentLimit):
		r.Status = StatusExcellent
	case ratio.LessThanOrEqual(goodLimit):
		r.Status = StatusGood
	case ratio.LessThanOrEqual(fairLimit):
		r.Status = StatusFair
	default:
		r.Status = StatusNeedsAttention
	}
	r.DebtToAssetRatio = ratio.Round(2)
	return r
}
