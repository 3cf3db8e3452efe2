package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(collectionRoles)}
}

type roleDocument struct {
	Name string `bson:"name"`
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.Role) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.coll.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrRoleNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return domain.Role(doc.Name), nil
}

// Seed upserts each role so repeated migrations are harmless.
func (r *RoleRepository) Seed(ctx context.Context, roles ...domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, role := range roles {
		filter := bson.M{"name": string(role)}
		update := bson.M{"$setOnInsert": bson.M{"name": string(role)}}
		if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}
	return nil
}
