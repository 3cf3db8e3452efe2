package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// ActivityRepository appends card activities to the card_activity audit collection.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collectionActivity)}
}

type activityDocument struct {
	CardID     string    `bson:"card_id"`
	ActorID    string    `bson:"actor_id"`
	Action     string    `bson:"action"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func (r *ActivityRepository) InsertActivity(ctx context.Context, a domain.CardActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, activityDocument{
		CardID:     a.CardID,
		ActorID:    a.ActorID,
		Action:     string(a.Action),
		At:         a.At.UTC(),
		RecordedAt: time.Now().UTC(),
	})
	return err
}
