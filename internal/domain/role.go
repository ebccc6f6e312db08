package domain

import (
	"fmt"
	"strings"
)

// Role is a closed set of access tiers ordered guest < user < admin.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only the three known role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleGuest, RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// NormalizeRole maps missing or unknown values to RoleUser.
func NormalizeRole(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return RoleUser
	}
	return r
}

// Rank is the position of r in the hierarchy. Unknown roles rank as user.
func (r Role) Rank() int {
	switch r {
	case RoleGuest:
		return 0
	case RoleAdmin:
		return 2
	default:
		return 1
	}
}

// AtLeast reports whether r grants everything required grants.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank()
}

// Assignable reports whether an admin may set r on another user.
func (r Role) Assignable() bool {
	return r == RoleUser || r == RoleAdmin
}
