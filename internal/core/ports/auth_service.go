package ports

import (
	"context"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string, roles []string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
}
