package handler

import (
	"net/http"

	"github.com/moodwalk/moodwalk/internal/api/models"
	"github.com/moodwalk/moodwalk/internal/api/response"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /api/metadata/enums - enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		Moods:               models.Moods,
		ActivityLevels:      models.ActivityLevels,
		Durations:           models.Durations,
		WaypointTypes:       models.WaypointTypes,
		RecommendationTypes: models.RecommendationTypes,
	}
	response.JSON(w, r, http.StatusOK, enums)
}
