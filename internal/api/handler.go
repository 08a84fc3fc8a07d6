package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
	"github.com/Sumit-1109/Link-Management-Backend/internal/service"
)

// Handler holds the HTTP handlers and their dependencies. It receives
// service interfaces rather than concrete types so tests can swap in
// mocks.
type Handler struct {
	users     service.UserServiceInterface
	links     service.LinkServiceInterface
	analytics service.AnalyticsServiceInterface
	db        DBInterface
	logger    *slog.Logger
}

// DBInterface is the slice of the connection pool the health check needs
type DBInterface interface {
	Ping(ctx context.Context) error
}

// NewHandler creates a new handler instance with the provided dependencies
func NewHandler(
	users service.UserServiceInterface,
	links service.LinkServiceInterface,
	analytics service.AnalyticsServiceInterface,
	db DBInterface,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:     users,
		links:     links,
		analytics: analytics,
		db:        db,
		logger:    logger,
	}
}

// RegisterRoutes registers all route definitions on the given engine.
// The caller creates the engine and installs global middleware first;
// requireAuth and clientInfo are applied per group here so the public
// redirect stays unauthenticated while still carrying client metadata.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth, clientInfo gin.HandlerFunc) {
	r.GET("/health", h.healthCheck)

	user := r.Group("/api/user")
	{
		user.POST("/signup", h.signup)
		user.POST("/login", h.login)
		user.GET("", requireAuth, h.getProfile)
		user.PUT("/modify", requireAuth, h.modifyProfile)
		user.DELETE("/delete", requireAuth, h.deleteAccount)
		user.GET("/greeting", requireAuth, h.greeting)
	}

	links := r.Group("/api/links", requireAuth)
	{
		links.POST("/create", h.createLink)
		links.GET("", h.listLinks)
		links.GET("/analytics", h.getAnalytics)
		links.GET("/dashboard", h.getDashboard)
		links.GET("/:id", h.getLinkDetails)
		links.PUT("/:id", h.updateLink)
		links.DELETE("/:id", h.deleteLink)
	}

	// Public redirect - registered last to avoid route conflicts
	r.GET("/:code", clientInfo, h.redirect)
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "degraded",
			"dependencies": gin.H{"database": "down"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"dependencies": gin.H{"database": "up"},
	})
}

// handleError maps service errors onto HTTP status codes. Every
// failure carries a short human-readable message; internal error
// objects never reach the caller.
func (h *Handler) handleError(c *gin.Context, err error) {
	if ve, ok := service.AsValidation(err); ok {
		h.errorResponse(c, http.StatusBadRequest, ve.Field+": "+ve.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		h.errorResponse(c, http.StatusNotFound, "Link not found")
	case errors.Is(err, service.ErrNoLinks):
		h.errorResponse(c, http.StatusNotFound, "No links found. Shorten some!")
	case errors.Is(err, service.ErrLinkExpired):
		h.errorResponse(c, http.StatusGone, "This link is no more :(")
	case errors.Is(err, service.ErrUserNotFound):
		h.errorResponse(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.errorResponse(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrEmailTaken):
		h.errorResponse(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, service.ErrMobileTaken):
		h.errorResponse(c, http.StatusConflict, "Mobile number already in use")
	default:
		h.logger.ErrorContext(c.Request.Context(), "unexpected error",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path))
		h.errorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// errorResponse sends a standardized JSON error response
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.logger.WarnContext(c.Request.Context(), "invalid request body",
		slog.String("error", err.Error()),
		slog.String("path", c.Request.URL.Path))
	h.errorResponse(c, http.StatusBadRequest, "Invalid request body")
}
