package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultRevocationCapacity bounds the number of revoked token IDs kept in memory.
const DefaultRevocationCapacity = 10000

// RevocationList remembers revoked token IDs for the lifetime of a token.
//
// Entries expire after the token duration, by which time the token itself
// has expired. The list is per process: a token revoked on one instance is
// still accepted by others.
type RevocationList struct {
	ids *expirable.LRU[string, struct{}]
}

// NewRevocationList creates a list holding at most capacity IDs for ttl each.
func NewRevocationList(capacity int, ttl time.Duration) *RevocationList {
	if capacity <= 0 {
		capacity = DefaultRevocationCapacity
	}
	return &RevocationList{ids: expirable.NewLRU[string, struct{}](capacity, nil, ttl)}
}

// Add revokes id. Empty IDs are ignored.
func (r *RevocationList) Add(id string) {
	if r == nil || id == "" {
		return
	}
	r.ids.Add(id, struct{}{})
}

// Contains reports whether id has been revoked.
func (r *RevocationList) Contains(id string) bool {
	if r == nil || id == "" {
		return false
	}
	return r.ids.Contains(id)
}

// Len returns the number of revoked IDs currently held.
func (r *RevocationList) Len() int {
	if r == nil {
		return 0
	}
	return r.ids.Len()
}
