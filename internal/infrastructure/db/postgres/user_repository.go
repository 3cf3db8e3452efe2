package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// UserRepository stores users and their user_roles links.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roles []roleModel
		if len(user.Roles) > 0 {
			if err := tx.Where("name IN ?", user.RoleNames()).Find(&roles).Error; err != nil {
				return fmt.Errorf("load roles: %w", err)
			}
			if len(roles) != len(user.Roles) {
				return domain.ErrRoleNotFound
			}
		}

		created = userModel{
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			Roles:        roles,
			CreatedAt:    user.CreatedAt,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where("email = ?", email).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}
