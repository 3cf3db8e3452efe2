package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// ActivityRepository appends card activities to card_activities.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) InsertActivity(ctx context.Context, a domain.CardActivity) error {
	return r.db.WithContext(ctx).Create(&activityModel{
		CardID:  a.CardID,
		ActorID: a.ActorID,
		Action:  string(a.Action),
		At:      a.At.UTC(),
	}).Error
}
