package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/observability"
	"github.com/mmynk/wealthwise/internal/tenant"
)

// MemberStore is the storage the group service needs.
type MemberStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsersByGroup(ctx context.Context, groupID string) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	CreateInvite(ctx context.Context, invite *models.InviteLink) error
	ListActiveInvites(ctx context.Context, groupID string) ([]*models.InviteLink, error)
}

// GroupService implements the GroupService RPC interface. Every call acts on
// the caller's own group.
type GroupService struct {
	store   MemberStore
	metrics *observability.Metrics
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store MemberStore, metrics *observability.Metrics) *GroupService {
	return &GroupService{store: store, metrics: metrics}
}

// authorize checks p and returns the caller and their group.
func (s *GroupService) authorize(ctx context.Context, p authz.Permission) (*models.User, *models.Group, error) {
	err := authz.Authorize(ctx, p)
	s.metrics.RecordAuthz(string(p), err == nil)
	if err != nil {
		slog.Warn("Permission denied", "permission", p, "user_id", tenant.UserID(ctx), "error", err)
		return nil, nil, toConnectError(err)
	}
	return tenant.CurrentUser(ctx), tenant.CurrentGroup(ctx), nil
}

// member loads userID and checks that it belongs to group.
func (s *GroupService) member(ctx context.Context, group *models.Group, userID string) (*models.User, error) {
	if userID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingUser)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if user.GroupID != group.ID {
		return nil, toConnectError(errNotMember)
	}
	return user, nil
}

// GetGroup returns the caller's group.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	_, group, err := s.authorize(ctx, authz.PermRead)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetGroupResponse{Group: toGroup(group)}), nil
}

// ListMembers returns the members of the caller's group.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	_, group, err := s.authorize(ctx, authz.PermRead)
	if err != nil {
		return nil, err
	}

	users, err := s.store.ListUsersByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	members := make([]*User, len(users))
	for i, u := range users {
		members[i] = toUser(u)
	}
	return connect.NewResponse(&ListMembersResponse{Members: members}), nil
}

// UpdateMemberRole changes the role of a member of the caller's group.
func (s *GroupService) UpdateMemberRole(ctx context.Context, req *connect.Request[UpdateMemberRoleRequest]) (*connect.Response[UpdateMemberRoleResponse], error) {
	caller, group, err := s.authorize(ctx, authz.PermManageUsers)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateMemberRole request received", "group_id", group.ID, "target", req.Msg.UserID, "role", req.Msg.Role)

	role := models.Role(req.Msg.Role)
	if !role.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errUnknownRole)
	}

	target, err := s.member(ctx, group, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	target.Role = role
	if err := s.store.UpdateUser(ctx, target); err != nil {
		slog.Error("UpdateMemberRole failed", "target", target.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member role updated", "group_id", group.ID, "target", target.ID, "role", role, "by", caller.ID)
	return connect.NewResponse(&UpdateMemberRoleResponse{Member: toUser(target)}), nil
}

// RemoveMember detaches a member from the caller's group.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	caller, group, err := s.authorize(ctx, authz.PermManageUsers)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveMember request received", "group_id", group.ID, "target", req.Msg.UserID)

	if req.Msg.UserID == caller.ID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errRemoveSelf)
	}
	target, err := s.member(ctx, group, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	target.GroupID = ""
	target.Role = models.RoleViewer
	if err := s.store.UpdateUser(ctx, target); err != nil {
		slog.Error("RemoveMember failed", "target", target.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member removed", "group_id", group.ID, "target", target.ID, "by", caller.ID)
	return connect.NewResponse(&RemoveMemberResponse{}), nil
}

// CreateInvite issues a one-time invite link to the caller's group.
func (s *GroupService) CreateInvite(ctx context.Context, req *connect.Request[CreateInviteRequest]) (*connect.Response[CreateInviteResponse], error) {
	caller, group, err := s.authorize(ctx, authz.PermManageUsers)
	if err != nil {
		return nil, err
	}

	invite := &models.InviteLink{GroupID: group.ID, CreatedBy: caller.ID}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		slog.Error("CreateInvite failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(fmt.Errorf("create invite: %w", err))
	}

	slog.Info("Invite created", "group_id", group.ID, "by", caller.ID)
	return connect.NewResponse(&CreateInviteResponse{Invite: toInvite(invite)}), nil
}

// ListInvites returns the unused invites of the caller's group.
func (s *GroupService) ListInvites(ctx context.Context, req *connect.Request[ListInvitesRequest]) (*connect.Response[ListInvitesResponse], error) {
	_, group, err := s.authorize(ctx, authz.PermManageUsers)
	if err != nil {
		return nil, err
	}

	invites, err := s.store.ListActiveInvites(ctx, group.ID)
	if err != nil {
		slog.Error("ListInvites failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*Invite, len(invites))
	for i, inv := range invites {
		out[i] = toInvite(inv)
	}
	return connect.NewResponse(&ListInvitesResponse{Invites: out}), nil
}
