package models

import (
	"fmt"
	"time"
)

// Role is the closed set of application roles. Authorization logic switches
// exhaustively over these values instead of comparing raw strings.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ParseRole validates a role claim coming from a session or request.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// UserRole grants a role to a user. The identity layer permits several grants
// per user, but this application assigns exactly one.
type UserRole struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	Role      Role      `gorm:"primarykey;type:varchar(20)" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
