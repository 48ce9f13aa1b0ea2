package models

// Group is the tenant boundary. Users and net worth items are scoped to one group.
//
// Deleting a group removes its items and invite links and detaches its users
// (their GroupID becomes empty).
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "alice's Group").
	Name string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the group.
	UpdatedAt int64
}
