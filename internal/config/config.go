// Package config loads service configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the MoodWalk API.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Env names the deployment environment (development, production).
	Env string

	// OTelEnabled gates OpenTelemetry export.
	OTelEnabled bool

	// OTLPEndpoint is the OTLP gRPC collector endpoint.
	OTLPEndpoint string

	// OpenRouterAPIKey authenticates completion calls. Falls back to
	// OPENAI_API_KEY when OPENROUTER_API_KEY is unset.
	OpenRouterAPIKey string

	// OpenRouterModel overrides the default completion model.
	OpenRouterModel string

	// OpenRouterBaseURL overrides the completion API base URL.
	OpenRouterBaseURL string

	// NominatimBaseURL overrides the geocoding API base URL.
	NominatimBaseURL string

	// OSRMBaseURL overrides the routing API base URL.
	OSRMBaseURL string
}

// Load reads configuration from the environment, after loading a local
// .env file if one exists.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return Config{
		Port:              getenv("APP_PORT", "8080"),
		Env:               getenv("APP_ENV", "development"),
		OTelEnabled:       os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OpenRouterAPIKey:  apiKey,
		OpenRouterModel:   os.Getenv("OPENROUTER_MODEL"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		NominatimBaseURL:  os.Getenv("NOMINATIM_BASE_URL"),
		OSRMBaseURL:       os.Getenv("OSRM_BASE_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
