package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
	RoleUser      UserRole = "user"
)

// User is a player profile. WalletBalance is integer GZC and is only mutated
// inside join/prize transactions.
type User struct {
	ID            int        `json:"id"`
	Email         string     `json:"email"`
	Nickname      string     `json:"nickname"`
	PasswordHash  string     `json:"-"`
	WalletBalance int        `json:"wallet_balance"`
	Roles         []UserRole `json:"roles,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// HasRole reports whether the loaded role set contains role.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
