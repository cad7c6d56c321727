package route

import (
	"context"

	"github.com/moodwalk/moodwalk/internal/api/models"
)

// RecentLimit is the maximum number of routes returned by ListRecent.
const RecentLimit = 10

// Repository stores generated routes for the lifetime of the process.
type Repository interface {
	// Save stores a route by id, assigning one if absent, and returns the
	// stored value. Saving the same id again replaces the value.
	Save(ctx context.Context, route *models.RouteResponse) (*models.RouteResponse, error)

	// Get retrieves a route by id, or ErrRouteNotFound.
	Get(ctx context.Context, id string) (*models.RouteResponse, error)

	// ListRecent returns at most RecentLimit most recently saved routes,
	// in save order.
	ListRecent(ctx context.Context) ([]*models.RouteResponse, error)
}
