package models

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned for every API failure.
// Details is only populated for validation failures.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse creates an ErrorResponse with the given title and message.
func NewErrorResponse(title, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   title,
		Message: message,
	}
}

// WithDetails attaches field errors to the response.
func (e *ErrorResponse) WithDetails(details []FieldError) *ErrorResponse {
	e.Details = details
	return e
}

// Write writes the ErrorResponse as JSON with the given status code.
func (e *ErrorResponse) Write(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
