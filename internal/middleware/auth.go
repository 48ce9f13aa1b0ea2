package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/wealthwise/internal/auth"
	"github.com/mmynk/wealthwise/internal/httputil"
	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
	"github.com/mmynk/wealthwise/internal/tenant"
)

type claimsKey struct{}

// ClaimsFromContext returns the validated token claims of the request, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// PrincipalStore loads the user and group named by a token.
type PrincipalStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
}

// PrincipalResolver turns an Authorization header into a user and group.
type PrincipalResolver struct {
	jwt   *auth.JWTManager
	store PrincipalStore
}

// NewPrincipalResolver creates a resolver.
func NewPrincipalResolver(jwtManager *auth.JWTManager, store PrincipalStore) *PrincipalResolver {
	return &PrincipalResolver{jwt: jwtManager, store: store}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Resolve returns the principal of an Authorization header.
//
// A missing, malformed, expired or revoked token, or a token whose user no
// longer exists, resolves to no user with a nil error. The user and group are
// always read from storage so role and group changes apply immediately.
// Only storage faults are returned as errors.
func (p *PrincipalResolver) Resolve(ctx context.Context, header string) (*models.User, *models.Group, *auth.Claims, error) {
	if header == "" {
		return nil, nil, nil, nil
	}
	token, ok := bearerToken(header)
	if !ok {
		slog.Debug("Ignoring malformed Authorization header")
		return nil, nil, nil, nil
	}

	claims, err := p.jwt.Validate(token)
	if err != nil {
		slog.Debug("Ignoring invalid token", "error", err)
		return nil, nil, nil, nil
	}

	user, err := p.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("Token refers to deleted user", "user_id", claims.UserID)
		return nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.HasGroup() {
		return user, nil, claims, nil
	}
	group, err := p.store.GetGroup(ctx, user.GroupID)
	if errors.Is(err, storage.ErrNotFound) {
		return user, nil, claims, nil
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load group: %w", err)
	}
	return user, group, claims, nil
}

// Principal returns a middleware that binds every request to its resolved
// user and group. The tenant scope is ended when the handler returns,
// including when it panics or the client goes away.
func Principal(resolver *PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, group, claims, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				slog.Error("Failed to resolve principal", "path", r.URL.Path, "error", err)
				httputil.WriteInternalError(w)
				return
			}

			ctx, scope := tenant.Begin(r.Context(), user, group)
			defer scope.End()
			if claims != nil {
				ctx = context.WithValue(ctx, claimsKey{}, claims)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
