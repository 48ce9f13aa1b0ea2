// Package networth is the only path to a group's net worth items.
//
// Gate reads the group from the request's tenant scope and passes it to every
// storage call. No method takes a group argument, so a caller cannot reach
// another group's items. Items of other groups are reported as ErrNotFound,
// exactly like items that do not exist.
package networth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/calculator"
	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
	"github.com/mmynk/wealthwise/internal/tenant"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrNotFound is returned for items that do not exist or belong to another group.
var ErrNotFound = errors.New("item not found")

// Page is one page of a group's items, newest first.
type Page struct {
	Items    []*models.NetWorthItem
	Count    int
	Page     int
	PageSize int

	// Next and Previous are page numbers, or 0 when there is no such page.
	Next     int
	Previous int
}

// Gate scopes item access to the current group.
type Gate struct {
	items storage.ItemStore
}

// NewGate creates a Gate over the given item store.
func NewGate(items storage.ItemStore) *Gate {
	return &Gate{items: items}
}

func currentGroup(ctx context.Context) (*models.Group, error) {
	group := tenant.CurrentGroup(ctx)
	if group == nil {
		return nil, authz.ErrGroupRequired
	}
	return group, nil
}

// List returns one page of the group's items of the given type.
//
// page is clamped to [1, last page] and pageSize to [1, MaxPageSize], with
// non-positive sizes replaced by DefaultPageSize.
func (g *Gate) List(ctx context.Context, itemType models.ItemType, page, pageSize int) (*Page, error) {
	group, err := currentGroup(ctx)
	if err != nil {
		return nil, err
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	items, count, err := g.items.ListItems(ctx, group.ID, itemType, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	lastPage := (count + pageSize - 1) / pageSize
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
		items, count, err = g.items.ListItems(ctx, group.ID, itemType, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
	}

	p := &Page{
		Items:    items,
		Count:    count,
		Page:     page,
		PageSize: pageSize,
	}
	if page*pageSize < count {
		p.Next = page + 1
	}
	if page > 1 {
		p.Previous = page - 1
	}
	return p, nil
}

// Get returns one of the group's items of the given type.
func (g *Gate) Get(ctx context.Context, itemType models.ItemType, id int64) (*models.NetWorthItem, error) {
	group, err := currentGroup(ctx)
	if err != nil {
		return nil, err
	}
	return g.get(ctx, group, itemType, id)
}

func (g *Gate) get(ctx context.Context, group *models.Group, itemType models.ItemType, id int64) (*models.NetWorthItem, error) {
	item, err := g.items.GetItem(ctx, group.ID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item.GroupID != group.ID || item.Type != itemType {
		return nil, ErrNotFound
	}
	return item, nil
}

// Create validates fields and stores a new item of the given type in the
// current group. Any group or type supplied in fields is ignored.
func (g *Gate) Create(ctx context.Context, itemType models.ItemType, fields Fields) (*models.NetWorthItem, error) {
	group, err := currentGroup(ctx)
	if err != nil {
		return nil, err
	}

	item := &models.NetWorthItem{GroupID: group.ID, Type: itemType}
	if err := apply(item, fields, true); err != nil {
		return nil, err
	}
	if err := g.items.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	slog.Info("Item created",
		"item_id", item.ID,
		"group_id", group.ID,
		"item_type", itemType,
		"user_id", tenant.UserID(ctx),
	)
	return item, nil
}

// Update applies a partial update to one of the group's items. Fields not
// present in fields keep their current values.
func (g *Gate) Update(ctx context.Context, itemType models.ItemType, id int64, fields Fields) (*models.NetWorthItem, error) {
	group, err := currentGroup(ctx)
	if err != nil {
		return nil, err
	}

	item, err := g.get(ctx, group, itemType, id)
	if err != nil {
		return nil, err
	}
	if err := apply(item, fields, false); err != nil {
		return nil, err
	}

	err = g.items.UpdateItem(ctx, item)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	slog.Info("Item updated", "item_id", item.ID, "group_id", group.ID, "user_id", tenant.UserID(ctx))
	return item, nil
}

// Delete removes one of the group's items.
func (g *Gate) Delete(ctx context.Context, itemType models.ItemType, id int64) error {
	group, err := currentGroup(ctx)
	if err != nil {
		return err
	}

	if _, err := g.get(ctx, group, itemType, id); err != nil {
		return err
	}
	err = g.items.DeleteItem(ctx, group.ID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	slog.Info("Item deleted", "item_id", id, "group_id", group.ID, "user_id", tenant.UserID(ctx))
	return nil
}

// Summary totals the current group's items.
func (g *Gate) Summary(ctx context.Context) (calculator.Summary, error) {
	group, err := currentGroup(ctx)
	if err != nil {
		return calculator.Summary{}, err
	}
	items, err := g.items.ListAllItems(ctx, group.ID)
	if err != nil {
		return calculator.Summary{}, fmt.Errorf("failed to load items: %w", err)
	}
	return calculator.Summarize(items), nil
}

// Ratios computes the current group's financial health ratios.
func (g *Gate) Ratios(ctx context.Context) (calculator.Ratios, error) {
	summary, err := g.Summary(ctx)
	if err != nil {
		return calculator.Ratios{}, err
	}
	return calculator.ComputeRatios(summary), nil
}
