package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reelinbookings/backend/internal/auth"
	"github.com/reelinbookings/backend/internal/middleware"
)

// Router holds all handlers and creates the chi router
type Router struct {
	scheduleHandler *ScheduleHandler
	pushHandler     *PushHandler
	healthHandler   *HealthHandler
	viewManager     *ViewManager
	jwtManager      *auth.JWTManager
	allowedOrigins  []string
	logger          *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	scheduleHandler *ScheduleHandler,
	pushHandler *PushHandler,
	healthHandler *HealthHandler,
	viewManager *ViewManager,
	jwtManager *auth.JWTManager,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		scheduleHandler: scheduleHandler,
		pushHandler:     pushHandler,
		healthHandler:   healthHandler,
		viewManager:     viewManager,
		jwtManager:      jwtManager,
		allowedOrigins:  allowedOrigins,
		logger:          logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(rt.allowedOrigins))
	r.Use(chimiddleware.Compress(5))

	// Health endpoints (no auth required)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.healthHandler.Health)
		r.Get("/ready", rt.healthHandler.Ready)
		r.Get("/live", rt.healthHandler.Live)
	})

	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Fan-out endpoint: called by the dispatch client on the
		// internal network, not by browsers.
		r.Post("/notify", rt.pushHandler.Notify)

		// Protected dashboard routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.jwtManager))

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", rt.scheduleHandler.Dashboard)
				r.Post("/", rt.scheduleHandler.Create)
				r.Put("/{id}/reschedule", rt.scheduleHandler.Reschedule)
				r.Put("/{id}/move", rt.scheduleHandler.Move)
				r.Post("/{id}/cancel", rt.scheduleHandler.Cancel)
			})

			r.Post("/subscriptions", rt.pushHandler.Subscribe)
		})
	})

	// Dashboard view socket (token via query param for browsers)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(rt.jwtManager))
		r.Get("/ws", rt.viewManager.ServeWS)
	})

	return r
}
