package api

import (
	"time"

	"github.com/mmynk/wealthwise/internal/calculator"
	"github.com/mmynk/wealthwise/internal/models"
)

// ItemResponse is the JSON form of a net worth item.
type ItemResponse struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Value                string `json:"value"`
	ItemType             string `json:"item_type"`
	ItemTypeDisplay      string `json:"item_type_display"`
	AssetCategory        string `json:"asset_category,omitempty"`
	AssetCategoryDisplay string `json:"asset_category_display,omitempty"`
	Description          string `json:"description"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

// CategoryResponse is one entry of assets_by_category.
type CategoryResponse struct {
	Category        string `json:"category"`
	CategoryDisplay string `json:"category_display"`
	TotalValue      string `json:"total_value"`
	Count           int    `json:"count"`
}

// LiabilityLineResponse is one entry of liabilities_summary.
type LiabilityLineResponse struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// SummaryResponse is the body of GET /summary.
type SummaryResponse struct {
	TotalAssets      string                  `json:"total_assets"`
	TotalLiabilities string                  `json:"total_liabilities"`
	NetWorth         string                  `json:"net_worth"`
	AssetsByCategory []CategoryResponse      `json:"assets_by_category"`
	Liabilities      []LiabilityLineResponse `json:"liabilities_summary"`
}

// RatiosResponse is the body of GET /ratios.
type RatiosResponse struct {
	DebtToAssetRatio string `json:"debt_to_asset_ratio"`
	Status           string `json:"financial_health_status"`
	NetWorth         string `json:"net_worth"`
}

func timestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

func toItemResponse(item *models.NetWorthItem) ItemResponse {
	resp := ItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Value:           item.Value.StringFixed(2),
		ItemType:        string(item.Type),
		ItemTypeDisplay: item.Type.Display(),
		Description:     item.Description,
		CreatedAt:       timestamp(item.CreatedAt),
		UpdatedAt:       timestamp(item.UpdatedAt),
	}
	if item.AssetCategory != "" {
		resp.AssetCategory = string(item.AssetCategory)
		resp.AssetCategoryDisplay = item.AssetCategory.Display()
	}
	return resp
}

func toSummaryResponse(s calculator.Summary) SummaryResponse {
	resp := SummaryResponse{
		TotalAssets:      s.TotalAssets.StringFixed(2),
		TotalLiabilities: s.TotalLiabilities.StringFixed(2),
		NetWorth:         s.NetWorth.StringFixed(2),
		AssetsByCategory: make([]CategoryResponse, len(s.AssetsByCategory)),
		Liabilities:      make([]LiabilityLineResponse, len(s.Liabilities)),
	}
	for i, ct := range s.AssetsByCategory {
		resp.AssetsByCategory[i] = CategoryResponse{
			Category:        string(ct.Category),
			CategoryDisplay: ct.Category.Display(),
			TotalValue:      ct.TotalValue.StringFixed(2),
			Count:           ct.Count,
		}
	}
	for i, l := range s.Liabilities {
		resp.Liabilities[i] = LiabilityLineResponse{
			Name:        l.Name,
			Value:       l.Value.StringFixed(2),
			Description: l.Description,
		}
	}
	return resp
}

func toRatiosResponse(r calculator.Ratios) RatiosResponse {
	return RatiosResponse{
		DebtToAssetRatio: r.DebtToAssetRatio.StringFixed(2),
		Status:           r.Status,
		NetWorth:         r.NetWorth.StringFixed(2),
	}
}
