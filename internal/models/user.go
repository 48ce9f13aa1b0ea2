package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's permission tier within their group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Display returns the human-readable role name.
func (r Role) Display() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleEditor:
		return "Editor"
	case RoleViewer:
		return "Viewer"
	}
	return string(r)
}

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name.
	Username string

	// Email is the user's email address. Optional.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// GroupID is the group the user belongs to. Empty means no group,
	// in which case the user holds no permissions unless IsSystemAdmin is set.
	GroupID string

	// Role is the user's role within GroupID. Defaults to RoleViewer.
	Role Role

	// IsSystemAdmin grants every permission regardless of group or role.
	IsSystemAdmin bool

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the account.
	UpdatedAt int64
}

// HasGroup reports whether the user is assigned to a group.
func (u *User) HasGroup() bool {
	return u != nil && u.GroupID != ""
}

// NewUser creates a new viewer account without a group.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleViewer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
