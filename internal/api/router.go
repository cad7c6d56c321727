// Package api provides the HTTP API for MoodWalk.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/api/handler"
	"github.com/moodwalk/moodwalk/internal/api/middleware"
	"github.com/moodwalk/moodwalk/internal/directions"
	"github.com/moodwalk/moodwalk/internal/geocode"
	"github.com/moodwalk/moodwalk/internal/route"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	RouteService   *route.Service
	GeocodeService *geocode.Service
	Directions     directions.Provider
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "moodwalk-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	routeHandler := handler.NewRouteHandler(cfg.RouteService, cfg.Directions)
	addressHandler := handler.NewAddressHandler(cfg.GeocodeService)
	metadataHandler := handler.NewMetadataHandler()

	// Rate limits per endpoint category
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/api", func(r chi.Router) {
		// Ops endpoints (public, unthrottled)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata for UI selectors
		r.With(standardRateLimit).Get("/metadata/enums", metadataHandler.GetEnums)

		// Route generation spends completion credits - strict rate limiting
		r.With(expensiveRateLimit).Post("/generate-route", routeHandler.GenerateRoute)

		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", routeHandler.ListRoutes)
			r.Route("/{routeId}", func(r chi.Router) {
				r.Get("/", routeHandler.GetRoute)
				r.Get("/geometry", routeHandler.GetRouteGeometry)
			})
		})

		// Geocoding proxy (pacing toward the upstream happens in the
		// geocode service, not here)
		r.With(standardRateLimit).Get("/search-address", addressHandler.SearchAddress)
		r.With(standardRateLimit).Get("/reverse-geocode", addressHandler.ReverseGeocode)
	})

	return r
}
