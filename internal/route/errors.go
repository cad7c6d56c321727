package route

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moodwalk/moodwalk/internal/api/models"
)

// ErrRouteNotFound is returned when a route id is not in the store.
var ErrRouteNotFound = errors.New("route not found")

// ValidationError carries the full list of input field violations.
// Input is rejected as a whole: no partially valid input is accepted.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return "invalid mood input: " + strings.Join(fields, ", ")
}

// GenerationCategory classifies a route generation failure so the API
// layer can select a status code.
type GenerationCategory string

const (
	GenerationAuth       GenerationCategory = "auth"
	GenerationQuota      GenerationCategory = "quota"
	GenerationRateLimit  GenerationCategory = "rate-limit"
	GenerationTransient  GenerationCategory = "transient"
	GenerationMalformed  GenerationCategory = "malformed"
	GenerationIncomplete GenerationCategory = "incomplete"
	GenerationUnknown    GenerationCategory = "unknown"
)

// GenerationError is a categorized route generation failure.
// Message is user-facing; Err retains the underlying cause.
type GenerationError struct {
	Category GenerationCategory
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("route generation failed (%s): %v", e.Category, e.Err)
	}
	return fmt.Sprintf("route generation failed (%s): %s", e.Category, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
