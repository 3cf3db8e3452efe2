package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// TokenParser extracts the subject identity from a bearer token.
type TokenParser interface {
	Parse(token string) (string, error)
}

// IdentityResolver maps a bearer token onto the stored user it names.
type IdentityResolver struct {
	tokens TokenParser
	users  ports.UserRepository
}

func NewIdentityResolver(tokens TokenParser, users ports.UserRepository) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

// Resolve returns domain.ErrUnknownUser both for an unusable token and for a
// token whose subject no longer exists. Store failures propagate wrapped.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	email, err := r.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnknownUser
	}

	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownUser
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}
