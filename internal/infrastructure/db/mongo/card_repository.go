package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

type cardDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Color       string             `bson:"color,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	CreatorID   string             `bson:"creator_id"`
}

func (d cardDocument) toDomain() *domain.Card {
	return &domain.Card{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Color:       d.Color,
		Status:      domain.CardStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		CreatorID:   d.CreatorID,
	}
}

// CardRepository implements ports.CardRepository on the cards collection.
type CardRepository struct {
	col *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{col: db.Collection(collectionCards)}
}

func (r *CardRepository) Create(ctx context.Context, c *domain.Card) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := cardDocument{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		CreatorID:   c.CreatorID,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert card: unexpected id type %T", res.InsertedID)
	}
	c.ID = oid.Hex()
	return nil
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	return r.findOne(ctx, id, ports.Scope{})
}

func (r *CardRepository) FindByIDAndCreator(ctx context.Context, id, creatorID string) (*domain.Card, error) {
	return r.findOne(ctx, id, ports.Scope{CreatorID: creatorID})
}

func (r *CardRepository) findOne(ctx context.Context, id string, scope ports.Scope) (*domain.Card, error) {
	filter, ok := scopedIDFilter(id, scope)
	if !ok {
		return nil, domain.ErrCardNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cardDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CardRepository) List(ctx context.Context, f ports.CardFilter, p ports.PageRequest) ([]*domain.Card, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(p)).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find cards: %w", err)
	}
	defer cur.Close(ctx)

	var docs []cardDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode cards: %w", err)
	}

	cards := make([]*domain.Card, 0, len(docs))
	for _, d := range docs {
		cards = append(cards, d.toDomain())
	}
	return cards, total, nil
}

// Update applies patch in a single FindOneAndUpdate so the scoped lookup and
// the write cannot interleave with another request.
func (r *CardRepository) Update(ctx context.Context, id string, scope ports.Scope, patch domain.CardPatch) (*domain.Card, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	filter, ok := scopedIDFilter(id, scope)
	if !ok {
		return nil, domain.ErrCardNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cardDocument
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": patchSet(patch)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCardNotFound
		}
		return nil, fmt.Errorf("update card: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CardRepository) Delete(ctx context.Context, id string, scope ports.Scope) error {
	filter, ok := scopedIDFilter(id, scope)
	if !ok {
		return domain.ErrCardNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// scopedIDFilter matches id inside scope. ok is false when id is not a valid
// ObjectID, which can never match a stored card.
func scopedIDFilter(id string, scope ports.Scope) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	filter := bson.M{"_id": oid}
	if !scope.Unrestricted() {
		filter["creator_id"] = scope.CreatorID
	}
	return filter, true
}

func buildFilter(f ports.CardFilter) bson.M {
	filter := bson.M{}
	if !f.Unrestricted() {
		filter["creator_id"] = f.CreatorID
	}
	if f.Name != nil {
		filter["name"] = *f.Name
	}
	if f.Description != nil {
		filter["description"] = *f.Description
	}
	if f.Color != nil {
		filter["color"] = *f.Color
	}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.CreatedOn != nil {
		day := *f.CreatedOn
		filter["created_at"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
	}
	return filter
}

var sortColumns = map[ports.SortField]string{
	ports.SortByID:          "_id",
	ports.SortByName:        "name",
	ports.SortByDescription: "description",
	ports.SortByColor:       "color",
	ports.SortByStatus:      "status",
	ports.SortByCreatedAt:   "created_at",
}

// sortSpec orders by the requested field with _id as the tie breaker so
// pagination is stable.
func sortSpec(p ports.PageRequest) bson.D {
	dir := 1
	if p.Desc {
		dir = -1
	}
	field, ok := sortColumns[p.Sort]
	if !ok {
		field = "_id"
	}
	spec := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		spec = append(spec, bson.E{Key: "_id", Value: 1})
	}
	return spec
}

func patchSet(p domain.CardPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Color != nil {
		set["color"] = *p.Color
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return set
}
