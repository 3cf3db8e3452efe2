package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// CardRepository implements ports.CardRepository on the cards table.
type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, c *domain.Card) error {
	m := cardModel{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		CreatorID:   c.CreatorID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	c.ID = m.toDomain().ID
	return nil
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	return r.findOne(r.db.WithContext(ctx), id, ports.Scope{})
}

func (r *CardRepository) FindByIDAndCreator(ctx context.Context, id, creatorID string) (*domain.Card, error) {
	return r.findOne(r.db.WithContext(ctx), id, ports.Scope{CreatorID: creatorID})
}

func (r *CardRepository) findOne(db *gorm.DB, id string, scope ports.Scope) (*domain.Card, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, domain.ErrCardNotFound
	}

	var m cardModel
	if err := db.Scopes(scopedID(key, scope)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CardRepository) List(ctx context.Context, f ports.CardFilter, p ports.PageRequest) ([]*domain.Card, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&cardModel{}).Scopes(filtered(f)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	var rows []cardModel
	err := r.db.WithContext(ctx).
		Scopes(filtered(f)).
		Order(orderBy(p)).
		Offset(p.Offset()).
		Limit(p.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find cards: %w", err)
	}

	cards := make([]*domain.Card, 0, len(rows))
	for _, m := range rows {
		cards = append(cards, m.toDomain())
	}
	return cards, total, nil
}

// Update locks the scoped row, applies patch and writes the changed columns
// in one transaction.
func (r *CardRepository) Update(ctx context.Context, id string, scope ports.Scope, patch domain.CardPatch) (*domain.Card, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := r.findOne(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id, scope)
		if err != nil {
			return err
		}
		if err := patch.Apply(card); err != nil {
			return err
		}

		key, _ := parseID(id)
		if err := tx.Model(&cardModel{ID: key}).Updates(patchColumns(patch)).Error; err != nil {
			return fmt.Errorf("update card: %w", err)
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the card with a single scoped DELETE.
func (r *CardRepository) Delete(ctx context.Context, id string, scope ports.Scope) error {
	key, ok := parseID(id)
	if !ok {
		return domain.ErrCardNotFound
	}

	res := r.db.WithContext(ctx).Scopes(scopedID(key, scope)).Delete(&cardModel{})
	if res.Error != nil {
		return fmt.Errorf("delete card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

func scopedID(key uint64, scope ports.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("id = ?", key)
		if !scope.Unrestricted() {
			db = db.Where("creator_id = ?", scope.CreatorID)
		}
		return db
	}
}

func filtered(f ports.CardFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.Unrestricted() {
			db = db.Where("creator_id = ?", f.CreatorID)
		}
		if f.Name != nil {
			db = db.Where("name = ?", *f.Name)
		}
		if f.Description != nil {
			db = db.Where("description = ?", *f.Description)
		}
		if f.Color != nil {
			db = db.Where("color = ?", *f.Color)
		}
		if f.Status != nil {
			db = db.Where("status = ?", string(*f.Status))
		}
		if f.CreatedOn != nil {
			day := *f.CreatedOn
			db = db.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
		}
		return db
	}
}

var sortColumns = map[ports.SortField]string{
	ports.SortByID:          "id",
	ports.SortByName:        "name",
	ports.SortByDescription: "description",
	ports.SortByColor:       "color",
	ports.SortByStatus:      "status",
	ports.SortByCreatedAt:   "created_at",
}

func orderBy(p ports.PageRequest) clause.OrderBy {
	col, ok := sortColumns[p.Sort]
	if !ok {
		col = "id"
	}
	columns := []clause.OrderByColumn{{Column: clause.Column{Name: col}, Desc: p.Desc}}
	if col != "id" {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return clause.OrderBy{Columns: columns}
}

func patchColumns(p domain.CardPatch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}
