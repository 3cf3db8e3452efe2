package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// TokenIssuer signs a token for an authenticated user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// AuthService implements signup and signin.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	tokens TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens, logger: logger}
}

// SignUp registers a user. An empty role set grants MEMBER; "admin" grants
// ADMIN and every other keyword grants MEMBER.
func (s *AuthService) SignUp(ctx context.Context, email, password string, roleKeywords []string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	roles, err := s.lookupRoles(ctx, roleKeywords)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Strs("roles", created.RoleNames()).Msg("user registered")
	return created, nil
}

func (s *AuthService) lookupRoles(ctx context.Context, keywords []string) ([]domain.Role, error) {
	wanted := []domain.Role{domain.RoleMember}
	if len(keywords) > 0 {
		wanted = wanted[:0]
		seen := make(map[domain.Role]struct{}, len(keywords))
		for _, kw := range keywords {
			r := domain.RoleFromSignup(kw)
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			wanted = append(wanted, r)
		}
	}

	roles := make([]domain.Role, 0, len(wanted))
	for _, r := range wanted {
		found, err := s.roles.FindByName(ctx, r)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("find role %s: %w", r, err)
		}
		roles = append(roles, found)
	}
	return roles, nil
}

// SignIn verifies the credentials and returns a signed token for the user.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
