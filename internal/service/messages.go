package service

import (
	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/models"
)

// User is the public view of an account.
type User struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email,omitempty"`
	GroupID       string   `json:"group_id,omitempty"`
	Role          string   `json:"role"`
	RoleDisplay   string   `json:"role_display"`
	IsSystemAdmin bool     `json:"is_system_admin"`
	Permissions   []string `json:"permissions"`
	CreatedAt     int64    `json:"created_at"`
}

type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type Invite struct {
	Token      string `json:"token"`
	InvitePath string `json:"invite_path"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  int64  `json:"created_at"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	InviteToken string `json:"invite_token,omitempty"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User  *User  `json:"user"`
	Group *Group `json:"group,omitempty"`
}

type GetGroupRequest struct{}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*User `json:"members"`
}

type UpdateMemberRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type UpdateMemberRoleResponse struct {
	Member *User `json:"member"`
}

type RemoveMemberRequest struct {
	UserID string `json:"user_id"`
}

type RemoveMemberResponse struct{}

type CreateInviteRequest struct{}

type CreateInviteResponse struct {
	Invite *Invite `json:"invite"`
}

type ListInvitesRequest struct{}

type ListInvitesResponse struct {
	Invites []*Invite `json:"invites"`
}

func toUser(u *models.User) *User {
	perms := authz.Permissions(u)
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return &User{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		GroupID:       u.GroupID,
		Role:          string(u.Role),
		RoleDisplay:   u.Role.Display(),
		IsSystemAdmin: u.IsSystemAdmin,
		Permissions:   names,
		CreatedAt:     u.CreatedAt,
	}
}

func toGroup(g *models.Group) *Group {
	if g == nil {
		return nil
	}
	return &Group{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt}
}

// InvitePath is the registration path that consumes token.
func InvitePath(token string) string {
	return "/register/" + token + "/"
}

func toInvite(inv *models.InviteLink) *Invite {
	return &Invite{
		Token:      inv.Token,
		InvitePath: InvitePath(inv.Token),
		CreatedBy:  inv.CreatedBy,
		CreatedAt:  inv.CreatedAt,
	}
}
