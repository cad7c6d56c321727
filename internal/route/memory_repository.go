package route

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/moodwalk/moodwalk/internal/api/models"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Routes live only for the lifetime of the process; there is no eviction
// beyond the ListRecent truncation.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*models.RouteResponse
	order  []string
}

// NewInMemoryRepository creates a new in-memory route repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes: make(map[string]*models.RouteResponse),
	}
}

// Save stores a route by id, assigning a fresh id if absent.
func (r *InMemoryRepository) Save(_ context.Context, route *models.RouteResponse) (*models.RouteResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := copyRoute(route)
	if cpy.ID == "" {
		cpy.ID = uuid.New().String()
	}

	if _, exists := r.routes[cpy.ID]; !exists {
		r.order = append(r.order, cpy.ID)
	}
	r.routes[cpy.ID] = cpy

	return copyRoute(cpy), nil
}

// Get retrieves a route by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*models.RouteResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return copyRoute(route), nil
}

// ListRecent returns at most RecentLimit most recently saved routes in
// save order.
func (r *InMemoryRepository) ListRecent(_ context.Context) ([]*models.RouteResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order
	if len(ids) > RecentLimit {
		ids = ids[len(ids)-RecentLimit:]
	}

	routes := make([]*models.RouteResponse, 0, len(ids))
	for _, id := range ids {
		routes = append(routes, copyRoute(r.routes[id]))
	}
	return routes, nil
}

// copyRoute returns a deep copy so callers cannot mutate stored state.
func copyRoute(route *models.RouteResponse) *models.RouteResponse {
	cpy := *route
	cpy.Waypoints = append([]models.Waypoint(nil), route.Waypoints...)
	cpy.MicroRecommendations = append([]models.MicroRecommendation(nil), route.MicroRecommendations...)
	return &cpy
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
