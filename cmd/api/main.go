// Package main provides the entrypoint for the MoodWalk API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/api"
	"github.com/moodwalk/moodwalk/internal/api/middleware"
	"github.com/moodwalk/moodwalk/internal/config"
	"github.com/moodwalk/moodwalk/internal/directions/osrm"
	"github.com/moodwalk/moodwalk/internal/geocode"
	"github.com/moodwalk/moodwalk/internal/geocode/nominatim"
	"github.com/moodwalk/moodwalk/internal/llm/openrouter"
	"github.com/moodwalk/moodwalk/internal/route"
	"github.com/moodwalk/moodwalk/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "moodwalk-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting MoodWalk API")

	cfg := config.Load()

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize completion client
	if cfg.OpenRouterAPIKey == "" {
		log.Warn().Msg("no OpenRouter API key configured - route generation will fail")
	}
	llmClient := openrouter.NewClient(openrouter.ClientConfig{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Model:   cfg.OpenRouterModel,
		Logger:  log.With().Str("provider", openrouter.ProviderName).Logger(),
	})

	// Initialize route repository and service
	routeRepo := route.NewInMemoryRepository()
	routeService := route.NewService(route.ServiceConfig{
		LLM:        llmClient,
		Repository: routeRepo,
		Logger:     log,
	})
	log.Info().Msg("route service initialized")

	// Initialize geocoding client and service
	geocodeClient := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL: cfg.NominatimBaseURL,
		Logger:  log.With().Str("provider", nominatim.ProviderName).Logger(),
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Client: geocodeClient,
		Logger: log,
	})
	log.Info().Msg("geocode service initialized")

	// Initialize routing client
	osrmClient := osrm.NewClient(osrm.ClientConfig{
		BaseURL: cfg.OSRMBaseURL,
		Logger:  log.With().Str("provider", osrm.ProviderName).Logger(),
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		RouteService:   routeService,
		GeocodeService: geocodeService,
		Directions:     osrmClient,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second, // generation can hold a request for up to 30s
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
