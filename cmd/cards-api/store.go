package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/erickogi/cards-restful/internal/api/handler"
	"github.com/erickogi/cards-restful/internal/core/ports"
	"github.com/erickogi/cards-restful/internal/infrastructure/config"
	"github.com/erickogi/cards-restful/internal/infrastructure/db/mongo"
	"github.com/erickogi/cards-restful/internal/infrastructure/db/postgres"
)

// store bundles the repositories of whichever backend STORE_DRIVER selects.
type store struct {
	cards    ports.CardRepository
	users    ports.UserRepository
	roles    ports.RoleRepository
	activity ports.ActivityRepository

	probeName string
	probe     handler.Probe
	migrate   func(ctx context.Context) error
	close     func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			DSN:    cfg.Postgres.DSN,
			Logger: log,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			cards:     postgres.NewCardRepository(db),
			users:     postgres.NewUserRepository(db),
			roles:     postgres.NewRoleRepository(db),
			activity:  postgres.NewActivityRepository(db),
			probeName: "postgres",
			probe:     postgres.Pinger(db),
			migrate:   func(ctx context.Context) error { return postgres.AutoMigrate(ctx, db) },
			close:     func(context.Context) error { return postgres.Close(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			cards:     mongo.NewCardRepository(db),
			users:     mongo.NewUserRepository(db),
			roles:     mongo.NewRoleRepository(db),
			activity:  mongo.NewActivityRepository(db),
			probeName: "mongodb",
			probe:     mongo.Pinger(client),
			migrate:   func(ctx context.Context) error { return mongo.EnsureIndexes(ctx, db) },
			close:     client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
