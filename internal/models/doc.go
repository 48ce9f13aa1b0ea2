// Package models defines the core domain models for WealthWise.
//
// # Models
//
//   - Group: the tenant boundary. Every net worth item belongs to exactly one group.
//   - User: an account with an optional group, a role within that group and a
//     system-admin flag that is independent of the role.
//   - NetWorthItem: an asset or a liability owned by a group.
//   - InviteLink: a one-time token that lets a new account join an existing group.
//
// # Design Principles
//
// 1. **Avoid circular references**: relationships are ID strings, not pointers
// 2. **Invariants live next to the data**: NetWorthItem.Validate is checked before every write
// 3. **Timestamps are Unix seconds**: formatting happens at the API boundary
package models
