// Package handler provides HTTP handlers for the MoodWalk API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moodwalk/moodwalk/internal/api/models"
	"github.com/moodwalk/moodwalk/internal/api/response"
	"github.com/moodwalk/moodwalk/internal/directions"
	"github.com/moodwalk/moodwalk/internal/route"
	"github.com/moodwalk/moodwalk/pkg/polyline"
)

// RouteHandler handles route generation and retrieval endpoints.
type RouteHandler struct {
	service    *route.Service
	directions directions.Provider
}

// NewRouteHandler creates a new RouteHandler.
// The directions provider may be nil, which disables the geometry endpoint.
func NewRouteHandler(service *route.Service, dirs directions.Provider) *RouteHandler {
	return &RouteHandler{
		service:    service,
		directions: dirs,
	}
}

// GenerateRoute handles POST /api/generate-route.
func (h *RouteHandler) GenerateRoute(w http.ResponseWriter, r *http.Request) {
	var input models.MoodInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	generated, err := h.service.Generate(r.Context(), &input)
	if err != nil {
		writeGenerateError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, generated)
}

// GetRoute handles GET /api/routes/{routeId}.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required")
		return
	}

	stored, err := h.service.Get(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			response.NotFound(w, r, "Route not found")
			return
		}
		response.InternalError(w, r, "Failed to fetch route", "")
		return
	}

	response.JSON(w, r, http.StatusOK, stored)
}

// ListRoutes handles GET /api/routes - most recently generated routes.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.ListRecent(r.Context())
	if err != nil {
		response.InternalError(w, r, "Failed to fetch routes", "")
		return
	}

	response.JSON(w, r, http.StatusOK, routes)
}

// GetRouteGeometry handles GET /api/routes/{routeId}/geometry - the
// street-level walking path for a stored route, fetched from the external
// routing service.
func (h *RouteHandler) GetRouteGeometry(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required")
		return
	}

	stored, err := h.service.Get(r.Context(), routeID)
	if err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			response.NotFound(w, r, "Route not found")
			return
		}
		response.InternalError(w, r, "Failed to fetch route", "")
		return
	}

	if h.directions == nil {
		response.Error(w, r, http.StatusNotImplemented, "Route path unavailable",
			"No routing provider is configured.")
		return
	}

	points := make([]polyline.Coordinate, 0, len(stored.Waypoints)+1)
	points = append(points, polyline.Coordinate{
		Lat: stored.StartLocation.Latitude,
		Lon: stored.StartLocation.Longitude,
	})
	for _, wp := range stored.Waypoints {
		points = append(points, polyline.Coordinate{Lat: wp.Latitude, Lon: wp.Longitude})
	}

	path, err := h.directions.GetWalkingPath(r.Context(), points)
	if err != nil {
		response.Error(w, r, http.StatusBadGateway, "Route path unavailable",
			"Could not fetch the walking path. The map will show direct lines instead.")
		return
	}

	coordinates := make([]models.LatLng, 0, len(path.Coordinates))
	for _, c := range path.Coordinates {
		coordinates = append(coordinates, models.LatLng{Latitude: c.Lat, Longitude: c.Lon})
	}

	response.JSON(w, r, http.StatusOK, models.RouteGeometry{
		RouteID:         routeID,
		DistanceMeters:  path.DistanceMeters,
		DurationSeconds: path.DurationSeconds,
		Coordinates:     coordinates,
	})
}

// writeGenerateError maps generation failures onto status codes.
func writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *route.ValidationError
	if errors.As(err, &validationErr) {
		response.ValidationFailed(w, r, "Please check the form fields.", validationErr.Errors)
		return
	}

	var genErr *route.GenerationError
	if errors.As(err, &genErr) {
		status := http.StatusInternalServerError
		switch genErr.Category {
		case route.GenerationAuth:
			status = http.StatusUnauthorized
		case route.GenerationQuota:
			status = http.StatusPaymentRequired
		case route.GenerationRateLimit:
			status = http.StatusTooManyRequests
		}
		response.Error(w, r, status, "Route generation failed", genErr.Message)
		return
	}

	response.InternalError(w, r, "Route generation failed",
		"Failed to generate a route. Please try again.")
}
