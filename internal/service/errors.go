package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/storage"
)

var (
	errNotMember   = errors.New("user is not a member of this group")
	errRemoveSelf  = errors.New("you cannot remove yourself from the group")
	errUnknownRole = errors.New("role must be one of admin, editor, viewer")
	errMissingUser = errors.New("user_id is required")
)

// toConnectError maps authorization and storage errors to Connect codes.
// Every authorization failure, including a missing principal, is
// CodePermissionDenied, matching the 403 of the REST surface.
// Anything unrecognised becomes CodeInternal.
func toConnectError(err error) *connect.Error {
	if authz.IsDenied(err) {
		return connect.NewError(connect.CodePermissionDenied, err)
	}
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, errNotMember):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
