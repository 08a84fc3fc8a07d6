package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Sumit-1109/Link-Management-Backend/internal/api"
	"github.com/Sumit-1109/Link-Management-Backend/internal/auth"
	"github.com/Sumit-1109/Link-Management-Backend/internal/config"
	"github.com/Sumit-1109/Link-Management-Backend/internal/middleware"
	"github.com/Sumit-1109/Link-Management-Backend/internal/repository"
	"github.com/Sumit-1109/Link-Management-Backend/internal/service"
)

// NewRouter initializes all dependencies and returns a configured Gin router.
// This is useful for testing where you don't need the full HTTP server.
func NewRouter(cfg *config.Config, db *pgxpool.Pool, logger *slog.Logger) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userService := service.NewUserService(userRepo, linkRepo, tokens)
	linkService := service.NewLinkService(linkRepo, cfg.App.BaseURL, cfg.App.ShortCodeRetries)
	analyticsService := service.NewAnalyticsService(linkRepo, cfg.App.BaseURL)

	handler := api.NewHandler(userService, linkService, analyticsService, db, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.Logging(logger))

	handler.RegisterRoutes(router, middleware.Auth(tokens), middleware.ClientInfo())
	return router
}

// NewServer initializes all dependencies and returns a configured HTTP server.
// This includes the router plus HTTP server settings (timeouts, address, etc.).
func NewServer(cfg *config.Config, db *pgxpool.Pool, logger *slog.Logger) *http.Server {
	router := NewRouter(cfg, db, logger)

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
