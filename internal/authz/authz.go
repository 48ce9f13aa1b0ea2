// Package authz implements the group role permission matrix and the
// per-request authorization check.
//
// Every decision is a pure function of (is system admin, has group, role) and the
// requested permission. Decisions are never cached: Authorize reads the identity
// from the request's tenant scope each time it is called.
package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/tenant"
)

// Permission is an action a user may perform within their group.
type Permission string

const (
	PermRead        Permission = "read"
	PermCreate      Permission = "create"
	PermUpdate      Permission = "update"
	PermDelete      Permission = "delete"
	PermManageUsers Permission = "manage_users"
)

// AllPermissions lists every permission.
var AllPermissions = []Permission{PermRead, PermCreate, PermUpdate, PermDelete, PermManageUsers}

var rolePermissions = map[models.Role][]Permission{
	models.RoleAdmin:  {PermRead, PermCreate, PermUpdate, PermDelete, PermManageUsers},
	models.RoleEditor: {PermRead, PermCreate, PermUpdate},
	models.RoleViewer: {PermRead},
}

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrGroupRequired   = errors.New("group membership required")
)

// PermissionDeniedError reports the permission the caller lacked.
type PermissionDeniedError struct {
	Permission Permission
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s required", e.Permission)
}

// IsDenied reports whether err is an authorization failure of any kind.
func IsDenied(err error) bool {
	var denied *PermissionDeniedError
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrGroupRequired) || errors.As(err, &denied)
}

// HasPermission reports whether user may perform p.
//
// System admins hold every permission regardless of group and role. Otherwise a
// user without a group holds none, and a user with a group holds the
// permissions of their role. Unknown roles hold none.
func HasPermission(user *models.User, p Permission) bool {
	if user == nil {
		return false
	}
	if user.IsSystemAdmin {
		return true
	}
	if user.GroupID == "" {
		return false
	}
	for _, granted := range rolePermissions[user.Role] {
		if granted == p {
			return true
		}
	}
	return false
}

// Permissions returns the permissions user holds, in AllPermissions order.
func Permissions(user *models.User) []Permission {
	var perms []Permission
	for _, p := range AllPermissions {
		if HasPermission(user, p) {
			perms = append(perms, p)
		}
	}
	return perms
}

// Authorize checks that the request in ctx may perform p.
//
// It fails with ErrUnauthenticated when there is no user, ErrGroupRequired when
// the request has no group (this applies to system admins as well, since all
// data is group scoped), and *PermissionDeniedError otherwise.
func Authorize(ctx context.Context, p Permission) error {
	user := tenant.CurrentUser(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if tenant.CurrentGroup(ctx) == nil {
		return ErrGroupRequired
	}
	if !HasPermission(user, p) {
		return &PermissionDeniedError{Permission: p}
	}
	return nil
}

// MethodPermissions maps HTTP methods to the permission they require.
// Each resource declares its own map.
type MethodPermissions map[string]Permission

var (
	// CollectionPermissions guards list/create endpoints.
	CollectionPermissions = MethodPermissions{
		http.MethodGet:  PermRead,
		http.MethodPost: PermCreate,
	}

	// DetailPermissions guards single-item endpoints.
	DetailPermissions = MethodPermissions{
		http.MethodGet:    PermRead,
		http.MethodPut:    PermUpdate,
		http.MethodPatch:  PermUpdate,
		http.MethodDelete: PermDelete,
	}

	// ReadOnlyPermissions guards report endpoints.
	ReadOnlyPermissions = MethodPermissions{
		http.MethodGet: PermRead,
	}
)

// For returns the permission required for method.
func (m MethodPermissions) For(method string) (Permission, bool) {
	if method == http.MethodHead {
		method = http.MethodGet
	}
	p, ok := m[method]
	return p, ok
}
