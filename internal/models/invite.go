package models

// InviteLink lets a new account join an existing group. A link can be used once.
type InviteLink struct {
	// Token is the secret part of the invite (UUID format).
	Token string

	// GroupID is the group the invitee joins.
	GroupID string

	// Used is set once an account has registered with this token.
	Used bool

	// CreatedBy is the ID of the user who created the invite.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the invite was created.
	CreatedAt int64
}
