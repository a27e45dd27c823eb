package api

import (
	"net/http"

	"github.com/futig/resume-assistant/internal/api/middleware"
	"github.com/futig/resume-assistant/internal/api/web"
	"github.com/futig/resume-assistant/internal/config"
	"github.com/futig/resume-assistant/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(webHandler *web.Handler, cfg config.WebConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.CookieName, cfg.SessionTTL, cfg.CookieSecure))
		web.RegisterRoutes(r, webHandler)
	})

	return r
}
