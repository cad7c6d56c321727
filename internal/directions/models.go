// Package directions defines the contract for fetching street-level
// walking paths from an external routing service. Paths are fetched,
// never computed locally.
package directions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moodwalk/moodwalk/pkg/polyline"
)

// Provider failure sentinels, matched with errors.Is.
var (
	// ErrNoPathFound indicates no walkable path connects the points.
	ErrNoPathFound = errors.New("no walking path found")

	// ErrProviderUnavailable indicates a network failure or 5xx response.
	ErrProviderUnavailable = errors.New("routing provider unavailable")

	// ErrInvalidCoordinates indicates an unusable coordinate sequence.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Error is a provider-tagged routing failure wrapping one of the
// sentinels above.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Path is a street-level walking path through an ordered point sequence.
type Path struct {
	Coordinates     []polyline.Coordinate
	DistanceMeters  int
	DurationSeconds int
	Provider        string
	FetchedAt       time.Time
}

// Provider is implemented by street-network routing services.
type Provider interface {
	// GetWalkingPath fetches a walking path visiting the given points in
	// order. At least two points are required.
	GetWalkingPath(ctx context.Context, points []polyline.Coordinate) (*Path, error)
}
