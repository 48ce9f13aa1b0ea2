package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
)

const (
	MinPasswordLength = 8
	MaxUsernameLength = 150
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidUsername    = errors.New("username must be 1-150 characters without spaces")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidInvite      = errors.New("invalid or already used invite link")
)

// UserStorage defines the persistence operations the authenticator needs.
type UserStorage interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	RegisterWithInvite(ctx context.Context, user *models.User, token string) error
	RegisterWithNewGroup(ctx context.Context, user *models.User, group *models.Group) error
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ValidUsername reports whether username is non-empty, at most
// MaxUsernameLength bytes and free of whitespace.
func ValidUsername(username string) bool {
	return username != "" && len(username) <= MaxUsernameLength && !strings.ContainsAny(username, " \t\r\n")
}

// Register creates a new user account with a hashed password.
//
// With an invite token the user joins the invite's group as a viewer and the
// invite is consumed. Without one, a new group named after the user is
// created and the user becomes its admin.
func (a *PasswordAuthenticator) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if !ValidUsername(params.Username) {
		return nil, ErrInvalidUsername
	}
	if err := a.ValidateCredential(params.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(params.Password, a.cost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(params.Username, params.Email, hashedPassword)

	if params.InviteToken != "" {
		user.Role = models.RoleViewer
		err = a.storage.RegisterWithInvite(ctx, user, params.InviteToken)
	} else {
		user.Role = models.RoleAdmin
		err = a.storage.RegisterWithNewGroup(ctx, user, &models.Group{Name: params.Username + "'s Group"})
	}
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, ErrUsernameTaken
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrInvalidInvite
	case err != nil:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the username and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
