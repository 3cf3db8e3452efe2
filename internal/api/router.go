package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/erickogi/cards-restful/internal/api/handler"
	"github.com/erickogi/cards-restful/internal/api/middleware"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// Dependencies are the already-built collaborators the router needs.
type Dependencies struct {
	Auth   ports.AuthService
	Cards  ports.CardService
	Probes map[string]handler.Probe
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	authHandler := handler.NewAuthHandler(deps.Auth)
	cardHandler := handler.NewCardHandler(deps.Cards)
	healthHandler := handler.NewHealthHandler(deps.Probes)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)

	// --- Card routes (bearer token required) ---
	cards := e.Group("/api/card", middleware.Auth())
	cards.POST("/create", cardHandler.Create)
	cards.GET("/list", cardHandler.List)
	cards.GET("/search", cardHandler.Search)
	cards.GET("/card", cardHandler.Get)
	cards.PATCH("/update/:id", cardHandler.Patch)
	cards.DELETE("/delete/:id", cardHandler.Delete)

	// --- Probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
