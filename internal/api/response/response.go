// Package response provides utilities for HTTP response handling.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/moodwalk/moodwalk/internal/api/middleware"
	"github.com/moodwalk/moodwalk/internal/api/models"
)

// JSON writes a JSON response with the given status code.
// Includes X-Request-Id header for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	requestID := middleware.GetRequestID(r.Context())
	if requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an API error body with the given status code.
func Error(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	requestID := middleware.GetRequestID(r.Context())
	if requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	models.NewErrorResponse(title, message).Write(w, status)
}

// ValidationFailed writes a 400 Bad Request with field-level details.
func ValidationFailed(w http.ResponseWriter, r *http.Request, message string, details []models.FieldError) {
	requestID := middleware.GetRequestID(r.Context())
	if requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	models.NewErrorResponse("Invalid input", message).
		WithDetails(details).
		Write(w, http.StatusBadRequest)
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, "Invalid input", message)
}

// NotFound writes a 404 Not Found error response.
// The title doubles as the user-facing error text, e.g. "Route not found".
func NotFound(w http.ResponseWriter, r *http.Request, title string) {
	Error(w, r, http.StatusNotFound, title, "")
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, r *http.Request, title, message string) {
	Error(w, r, http.StatusInternalServerError, title, message)
}
