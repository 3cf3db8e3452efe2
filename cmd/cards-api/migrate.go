package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/infrastructure/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create indexes or tables and seed the member and admin roles",
		Long: `Prepare the configured store.

For mongo this ensures the unique and query indexes; for postgres it runs the
gorm auto-migration. Both then insert ROLE_MEMBER and ROLE_ADMIN if missing.
Running it twice is harmless.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	}
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := setupLogger(cfg)

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close(context.Background()) }()

	if err := migrateStore(ctx, st); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store migrated and roles seeded")
	return nil
}

func migrateStore(ctx context.Context, st *store) error {
	if err := st.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := st.roles.Seed(ctx, domain.RoleMember, domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
