package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/wealthwise/internal/auth"
	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/middleware"
	"github.com/mmynk/wealthwise/internal/observability"
	"github.com/mmynk/wealthwise/internal/tenant"
)

var errTooManyAttempts = errors.New("too many failed login attempts, try again later")

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	limiter       auth.LoginLimiter
	metrics       *observability.Metrics
}

// NewAuthService creates a new authentication service. limiter and metrics may be nil.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, limiter auth.LoginLimiter, metrics *observability.Metrics) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		limiter:       limiter,
		metrics:       metrics,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	slog.Info("Register request received", "username", req.Msg.Username, "with_invite", req.Msg.InviteToken != "")

	user, err := s.authenticator.Register(ctx, auth.RegisterParams{
		Username:    req.Msg.Username,
		Email:       req.Msg.Email,
		Password:    req.Msg.Password,
		InviteToken: req.Msg.InviteToken,
	})
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		return nil, connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrInvalidInvite):
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	case err != nil:
		slog.Error("Registration failed", "username", req.Msg.Username, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User registered", "user_id", user.ID, "group_id", user.GroupID, "role", user.Role)
	return connect.NewResponse(&RegisterResponse{User: toUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	username := req.Msg.Username
	slog.Info("Login request received", "username", username)

	if username == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allowed(ctx, username)
		if err != nil {
			slog.Warn("Login limiter unavailable", "error", err)
		}
		if !allowed {
			s.metrics.RecordLogin(observability.LoginThrottled)
			slog.Warn("Login throttled", "username", username)
			return nil, connect.NewError(connect.CodeResourceExhausted, errTooManyAttempts)
		}
	}

	user, err := s.authenticator.Authenticate(ctx, username, req.Msg.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		if s.limiter != nil {
			if err := s.limiter.Failed(ctx, username); err != nil {
				slog.Warn("Failed to record login failure", "error", err)
			}
		}
		s.metrics.RecordLogin(observability.LoginFailure)
		slog.Warn("Login failed", "username", username)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	if err != nil {
		slog.Error("Login failed", "username", username, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			slog.Warn("Failed to reset login limiter", "error", err)
		}
	}

	expiresAt := time.Now().Add(s.jwtManager.TokenDuration())
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.RecordLogin(observability.LoginSuccess)

	slog.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(&LoginResponse{
		User:      toUser(user),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

// Logout revokes the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	claims := middleware.ClaimsFromContext(ctx)
	if claims == nil {
		return nil, toConnectError(authz.ErrUnauthenticated)
	}

	s.jwtManager.Revoke(claims)

	slog.Info("User logged out", "user_id", claims.UserID)
	return connect.NewResponse(&LogoutResponse{}), nil
}

// GetCurrentUser returns the user and group of the request's tenant scope.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	user := tenant.CurrentUser(ctx)
	if user == nil {
		return nil, toConnectError(authz.ErrUnauthenticated)
	}

	return connect.NewResponse(&GetCurrentUserResponse{
		User:  toUser(user),
		Group: toGroup(tenant.CurrentGroup(ctx)),
	}), nil
}
