package ports

import (
	"context"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create inserts user and returns it with its ID set. A duplicate email
	// yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RoleRepository looks up the static role reference data.
type RoleRepository interface {
	// FindByName returns domain.ErrRoleNotFound when the role is not seeded.
	FindByName(ctx context.Context, name domain.Role) (domain.Role, error)
	// Seed inserts every role that does not exist yet.
	Seed(ctx context.Context, roles ...domain.Role) error
}

// ActivityRepository persists the card activity audit trail.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, a domain.CardActivity) error
}
