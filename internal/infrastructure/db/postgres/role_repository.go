package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.Role) (domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRoleNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return domain.Role(m.Name), nil
}

// Seed inserts the missing roles and ignores the ones already present.
func (r *RoleRepository) Seed(ctx context.Context, roles ...domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	rows := make([]roleModel, len(roles))
	for i, role := range roles {
		rows[i] = roleModel{Name: string(role)}
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
