package service

import (
	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// IsPrivileged reports whether user may see and mutate every card.
func IsPrivileged(user *domain.User) bool {
	return user.HasRole(domain.RoleAdmin)
}

// ScopeFor returns the card scope user operates in: unrestricted for admins,
// owned cards only for everyone else. Every card operation derives its
// visibility from this function.
func ScopeFor(user *domain.User) ports.Scope {
	if IsPrivileged(user) {
		return ports.Scope{}
	}
	return ports.Scope{CreatorID: user.ID}
}
