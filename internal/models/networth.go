package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemType distinguishes assets from liabilities.
type ItemType string

const (
	ItemTypeAsset     ItemType = "ASSET"
	ItemTypeLiability ItemType = "LIABILITY"
)

// Display returns the human-readable item type.
func (t ItemType) Display() string {
	switch t {
	case ItemTypeAsset:
		return "Asset"
	case ItemTypeLiability:
		return "Liability"
	}
	return string(t)
}

// AssetCategory sub-classifies assets. Liabilities have no category.
type AssetCategory string

const (
	CategorySavings     AssetCategory = "SAVINGS"
	CategoryInvestments AssetCategory = "INVESTMENTS"
	CategoryProperty    AssetCategory = "PROPERTY"
	CategoryOtherAssets AssetCategory = "OTHER_ASSETS"
)

// AssetCategories lists the valid categories in their canonical order.
var AssetCategories = []AssetCategory{
	CategorySavings,
	CategoryInvestments,
	CategoryProperty,
	CategoryOtherAssets,
}

// Valid reports whether c is one of the fixed categories.
func (c AssetCategory) Valid() bool {
	switch c {
	case CategorySavings, CategoryInvestments, CategoryProperty, CategoryOtherAssets:
		return true
	}
	return false
}

// Display returns the human-readable category name.
func (c AssetCategory) Display() string {
	switch c {
	case CategorySavings:
		return "Savings"
	case CategoryInvestments:
		return "Investments"
	case CategoryProperty:
		return "Property"
	case CategoryOtherAssets:
		return "Other Assets"
	}
	return string(c)
}

var (
	ErrCategoryRequired   = errors.New("assets must have an asset category")
	ErrCategoryNotAllowed = errors.New("liabilities cannot have an asset category")
	ErrNegativeValue      = errors.New("value must not be negative")
)

// NetWorthItem is an asset or a liability owned by a group.
type NetWorthItem struct {
	// ID is assigned by the store on creation.
	ID int64

	// GroupID is the owning group. Set once on creation and never changed.
	GroupID string

	// Name is a short label for the item (e.g., "Cash", "Mortgage").
	Name string

	// Value is the monetary value with two decimal places. Never negative.
	Value decimal.Decimal

	// Type is ItemTypeAsset or ItemTypeLiability.
	Type ItemType

	// AssetCategory is required for assets and empty for liabilities.
	AssetCategory AssetCategory

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last update.
	UpdatedAt int64
}

// Validate checks the write-time invariants:
// the value is not negative and (Type == ASSET) ⇔ AssetCategory is valid.
func (i *NetWorthItem) Validate() error {
	if i.GroupID == "" {
		return errors.New("item has no group")
	}
	if i.Value.IsNegative() {
		return ErrNegativeValue
	}
	switch i.Type {
	case ItemTypeAsset:
		if !i.AssetCategory.Valid() {
			return ErrCategoryRequired
		}
	case ItemTypeLiability:
		if i.AssetCategory != "" {
			return ErrCategoryNotAllowed
		}
	default:
		return fmt.Errorf("unknown item type %q", i.Type)
	}
	return nil
}
