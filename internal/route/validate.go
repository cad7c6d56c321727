package route

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/moodwalk/moodwalk/internal/api/models"
)

// ValidateInput checks a mood input against the supported enumerations.
// It is a pure check: it collects every violation and either accepts the
// input as a whole or rejects it with a ValidationError.
func ValidateInput(input *models.MoodInput) error {
	var fieldErrors []models.FieldError

	if !slices.Contains(models.Moods, input.CurrentMood) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "currentMood",
			Message: fmt.Sprintf("must be one of: %s", joinMoods()),
		})
	}
	if !slices.Contains(models.Moods, input.DesiredMood) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "desiredMood",
			Message: fmt.Sprintf("must be one of: %s", joinMoods()),
		})
	}
	if !slices.Contains(models.ActivityLevels, input.ActivityLevel) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "activityLevel",
			Message: "must be one of: low, medium, high",
		})
	}
	if !slices.Contains(models.Durations, input.Duration) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "duration",
			Message: "must be one of: 15, 30, 45, 60",
		})
	}
	if strings.TrimSpace(input.Location) == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "location",
			Message: "location is required",
		})
	}
	if input.Latitude != nil && !isFinite(*input.Latitude) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "latitude",
			Message: "must be a finite number",
		})
	}
	if input.Longitude != nil && !isFinite(*input.Longitude) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "longitude",
			Message: "must be a finite number",
		})
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{Errors: fieldErrors}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func joinMoods() string {
	names := make([]string, 0, len(models.Moods))
	for _, m := range models.Moods {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
