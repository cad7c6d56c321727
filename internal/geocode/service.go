package geocode

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	// MinQueryLength is the shortest query forwarded upstream; shorter
	// queries short-circuit to an empty result.
	MinQueryLength = 3

	// DefaultMinInterval is the minimum spacing between upstream requests,
	// enforced process-wide.
	DefaultMinInterval = time.Second

	// DefaultLimit is the suggestion count used when none is requested.
	DefaultLimit = 5

	// MaxLimit caps the suggestion count per request.
	MaxLimit = 10
)

// ServiceConfig holds dependencies for the geocode service.
type ServiceConfig struct {
	// Client is the upstream geocoding provider (required).
	Client Searcher

	// MinInterval overrides the upstream request spacing.
	// Zero uses DefaultMinInterval.
	MinInterval time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service paces calls to the upstream geocoder: all callers serialize
// behind a single watermark so upstream requests are spaced at least
// MinInterval apart.
type Service struct {
	client      Searcher
	minInterval time.Duration
	logger      zerolog.Logger

	// mu guards watermark. The watermark is advanced inside the lock,
	// before the delayed request is issued, so two concurrent callers
	// cannot compute the same wait and burst through together.
	mu        sync.Mutex
	watermark time.Time

	// Overridable in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService creates a new geocode service.
func NewService(cfg ServiceConfig) *Service {
	minInterval := cfg.MinInterval
	if minInterval == 0 {
		minInterval = DefaultMinInterval
	}
	return &Service{
		client:      cfg.Client,
		minInterval: minInterval,
		logger:      cfg.Logger,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Search returns address suggestions for a free-text query.
// Queries shorter than MinQueryLength return an empty result without an
// upstream call.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	// Counted in runes: a two-character Cyrillic query is still two
	// characters, not four bytes.
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Suggestion{}, nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if err := s.waitTurn(ctx); err != nil {
		return nil, err
	}

	suggestions, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("results", len(suggestions)).
		Int("limit", limit).
		Msg("address search completed")

	return suggestions, nil
}

// Reverse resolves a coordinate pair to an address, behind the same
// upstream pacing as Search.
func (s *Service) Reverse(ctx context.Context, lat, lon float64) (*Suggestion, error) {
	if err := s.waitTurn(ctx); err != nil {
		return nil, err
	}
	return s.client.Reverse(ctx, lat, lon)
}

// waitTurn reserves the next upstream slot and sleeps until it arrives.
// The reservation happens under the lock so the check-then-update step
// is serialized; the sleep happens outside it.
func (s *Service) waitTurn(ctx context.Context) error {
	s.mu.Lock()
	now := s.now()
	wait := s.minInterval - now.Sub(s.watermark)
	if wait > 0 {
		s.watermark = now.Add(wait)
	} else {
		wait = 0
		s.watermark = now
	}
	s.mu.Unlock()

	if wait > 0 {
		return s.sleep(ctx, wait)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
