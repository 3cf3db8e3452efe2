package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/erickogi/cards-restful/internal/api"
	"github.com/erickogi/cards-restful/internal/api/handler"
	"github.com/erickogi/cards-restful/internal/core/service"
	"github.com/erickogi/cards-restful/internal/infrastructure/config"
	"github.com/erickogi/cards-restful/internal/infrastructure/db/redis"
	"github.com/erickogi/cards-restful/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "prepare the store and seed roles before serving")
	return cmd
}

func runServe(autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := setupLogger(cfg)

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()
	if autoMigrate {
		if err := migrateStore(ctx, st); err != nil {
			return err
		}
	}

	probes := map[string]handler.Probe{st.probeName: st.probe}

	// Idempotency is optional; without Redis every create inserts.
	var idem service.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = redis.NewIdempotencyStore(rdb)
		probes["redis"] = redis.Pinger(rdb)
	} else {
		log.Info().Msg("REDIS_ADDR not set, create idempotency disabled")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, cfg.Activity.QueueSize, st.activity, log.With().Str("component", "activity").Logger())
	dispatcher.Start(workerCtx)

	tokens := service.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL)
	identity := service.NewIdentityResolver(tokens, st.users)

	e := api.NewRouter(api.Dependencies{
		Auth:   service.NewAuthService(st.users, st.roles, tokens, log),
		Cards:  service.NewCardService(identity, st.cards, idem, dispatcher, log),
		Probes: probes,
		Logger: log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopWorkers()
		dispatcher.Wait()
		return err
	case <-ctx.Done():
	}

	shutdown(srv, dispatcher, stopWorkers, log)
	return nil
}

// shutdown stops accepting requests first, then lets the activity workers
// drain what the last requests published.
func shutdown(srv *http.Server, dispatcher *queue.Dispatcher, stopWorkers context.CancelFunc, log zerolog.Logger) {
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server exited")
}
