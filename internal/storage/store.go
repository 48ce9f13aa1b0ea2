// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/wealthwise/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned (wrapped) when a unique constraint is violated.
var ErrConflict = errors.New("already exists")

// GroupStore persists groups.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes the group with its items and invite links and
	// detaches its users.
	DeleteGroup(ctx context.Context, groupID string) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsersByGroup(ctx context.Context, groupID string) ([]*models.User, error)

	// UpdateUser writes group, role, system-admin flag and email.
	UpdateUser(ctx context.Context, user *models.User) error
}

// InviteStore persists group invite links.
type InviteStore interface {
	CreateInvite(ctx context.Context, invite *models.InviteLink) error
	GetInvite(ctx context.Context, token string) (*models.InviteLink, error)
	ListActiveInvites(ctx context.Context, groupID string) ([]*models.InviteLink, error)

	// PurgeUsedInvites deletes used invites created before the given Unix time.
	PurgeUsedInvites(ctx context.Context, before int64) (int64, error)

	// RegisterWithInvite creates user as a member of the invite's group and
	// marks the invite used, atomically. Fails with ErrNotFound if the invite
	// does not exist or was already used.
	RegisterWithInvite(ctx context.Context, user *models.User, token string) error

	// RegisterWithNewGroup creates group and user (as a member of group) atomically.
	RegisterWithNewGroup(ctx context.Context, user *models.User, group *models.Group) error
}

// ItemStore persists net worth items. Every method is keyed by group ID;
// there is no way to read or write an item without naming its group.
type ItemStore interface {
	// ListItems returns one page of the group's items of the given type,
	// newest first, plus the total number of matching items.
	ListItems(ctx context.Context, groupID string, itemType models.ItemType, limit, offset int) ([]*models.NetWorthItem, int, error)

	// ListAllItems returns all of the group's items.
	ListAllItems(ctx context.Context, groupID string) ([]*models.NetWorthItem, error)

	GetItem(ctx context.Context, groupID string, id int64) (*models.NetWorthItem, error)
	CreateItem(ctx context.Context, item *models.NetWorthItem) error

	// UpdateItem writes name, value, category and description of the item
	// matching both item.ID and item.GroupID.
	UpdateItem(ctx context.Context, item *models.NetWorthItem) error

	DeleteItem(ctx context.Context, groupID string, id int64) error
}

// Store combines all storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	GroupStore
	UserStore
	InviteStore
	ItemStore

	// Close releases any resources held by the store.
	Close() error
}
