package domain

import (
	"errors"
	"time"
)

// Role is one of the closed set of role names a user can hold.
type Role string

const (
	RoleMember Role = "ROLE_MEMBER"
	RoleAdmin  Role = "ROLE_ADMIN"
)

var (
	ErrUnknownUser        = errors.New("user does not exist")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleNotFound       = errors.New("role is not found")
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user holds role r.
func (u *User) HasRole(r Role) bool {
	if u == nil {
		return false
	}
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// RoleNames returns the user's roles as plain strings.
func (u *User) RoleNames() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}

// RoleFromSignup maps a signup role keyword onto a Role. Anything other than
// "admin" yields RoleMember.
func RoleFromSignup(keyword string) Role {
	if keyword == "admin" {
		return RoleAdmin
	}
	return RoleMember
}
