package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/erickogi/cards-restful/docs"
	"github.com/erickogi/cards-restful/internal/infrastructure/config"
	"github.com/erickogi/cards-restful/pkg/logger"
)

var Version = "dev"

// @title                       Cards API
// @version                     1.0
// @description                 Task cards with role-scoped access. Members manage their own cards, admins manage every card.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token from /api/auth/signin.
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "cards-api",
		Short:         "Cards REST API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		l := logger.Default()
		l.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger renders console output in development and JSON elsewhere.
func setupLogger(cfg *config.Config) zerolog.Logger {
	format := logger.FormatJSON
	if cfg.IsDevelopment() {
		format = logger.FormatConsole
	}
	return logger.Setup(logger.Config{
		Level:   cfg.LogLevel,
		Format:  format,
		Service: "cards-api",
		Version: Version,
	})
}
