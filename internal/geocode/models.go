// Package geocode provides rate-paced address lookup via an external
// geocoding search service.
package geocode

import (
	"context"
	"fmt"
)

// Suggestion is a single address suggestion, passed through in the shape
// the upstream geocoder returns (string lat/lon).
type Suggestion struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Category classifies a lookup failure so the API layer can select a
// status code.
type Category string

const (
	CategoryTimeout     Category = "timeout"
	CategoryRateLimited Category = "rate-limited"
	CategoryForbidden   Category = "forbidden"
	CategoryUnknown     Category = "unknown"
)

// Error is a categorized address lookup failure.
type Error struct {
	Provider string
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Searcher is implemented by geocoding providers.
type Searcher interface {
	// Search returns address suggestions for a free-text query.
	Search(ctx context.Context, query string, limit int) ([]Suggestion, error)

	// Reverse resolves a coordinate pair to an address.
	Reverse(ctx context.Context, lat, lon float64) (*Suggestion, error)
}
