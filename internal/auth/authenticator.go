package auth

import (
	"context"

	"github.com/mmynk/wealthwise/internal/models"
)

// RegisterParams describes a new account.
type RegisterParams struct {
	Username string
	Email    string
	Password string

	// InviteToken, when set, joins the user to the invite's group as a viewer.
	// Otherwise a new group is created with the user as its admin.
	InviteToken string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account and places it in a group.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
