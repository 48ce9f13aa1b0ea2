package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
)

const itemColumns = `id, group_id, name, value, item_type, asset_category, description, created_at, updated_at`

func scanItem(row rowScanner) (*models.NetWorthItem, error) {
	item := &models.NetWorthItem{}
	var value, itemType string
	var category, description sql.NullString
	if err := row.Scan(
		&item.ID,
		&item.GroupID,
		&item.Name,
		&value,
		&itemType,
		&category,
		&description,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("item %d has corrupt value %q: %w", item.ID, value, err)
	}
	item.Value = v
	item.Type = models.ItemType(itemType)
	item.AssetCategory = models.AssetCategory(category.String)
	item.Description = description.String
	return item, nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...interface{}) ([]*models.NetWorthItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.NetWorthItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// ListItems returns a page of the group's items of one type, newest first.
func (s *SQLiteStore) ListItems(ctx context.Context, groupID string, itemType models.ItemType, limit, offset int) ([]*models.NetWorthItem, int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM net_worth_items WHERE group_id = ? AND item_type = ?",
		groupID, string(itemType),
	).Scan(&count)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	items, err := s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM net_worth_items
		 WHERE group_id = ? AND item_type = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		groupID, string(itemType), limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// ListAllItems returns every item of the group ordered by type and name.
func (s *SQLiteStore) ListAllItems(ctx context.Context, groupID string) ([]*models.NetWorthItem, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM net_worth_items
		 WHERE group_id = ?
		 ORDER BY item_type, name, id`,
		groupID,
	)
}

// GetItem retrieves one of the group's items.
func (s *SQLiteStore) GetItem(ctx context.Context, groupID string, id int64) (*models.NetWorthItem, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM net_worth_items WHERE id = ? AND group_id = ?`,
		id, groupID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// CreateItem inserts a new item and assigns its ID.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.NetWorthItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	item.UpdatedAt = item.CreatedAt

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO net_worth_items (group_id, name, value, item_type, asset_category, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.GroupID,
		item.Name,
		item.Value.StringFixed(2),
		string(item.Type),
		nullString(string(item.AssetCategory)),
		nullString(item.Description),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read item id: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateItem writes the mutable fields of an item. The group and type never change.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.NetWorthItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	item.UpdatedAt = time.Now().Unix()

	result, err := s.db.ExecContext(ctx,
		`UPDATE net_worth_items
		 SET name = ?, value = ?, asset_category = ?, description = ?, updated_at = ?
		 WHERE id = ? AND group_id = ? AND item_type = ?`,
		item.Name,
		item.Value.StringFixed(2),
		nullString(string(item.AssetCategory)),
		nullString(item.Description),
		item.UpdatedAt,
		item.ID,
		item.GroupID,
		string(item.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", item.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteItem removes one of the group's items.
func (s *SQLiteStore) DeleteItem(ctx context.Context, groupID string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM net_worth_items WHERE id = ? AND group_id = ?", id, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
