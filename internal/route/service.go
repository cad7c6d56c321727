// Package route implements mood-based walking route generation and storage.
package route

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/api/models"
	"github.com/moodwalk/moodwalk/internal/llm"
	"github.com/moodwalk/moodwalk/internal/provider/resilience"
)

const (
	// DefaultLatitude and DefaultLongitude are the start coordinates used
	// when the input carries none.
	DefaultLatitude  = 40.7128
	DefaultLongitude = -74.0060

	// maxCoordinateOffset bounds waypoint offsets relative to the start.
	// The generator is asked for offsets in this range but its output is
	// untrusted, so out-of-range values are clamped.
	maxCoordinateOffset = 0.01

	// metersPerMinute is the rough walking speed used for the distance
	// estimate. TotalDistance is an estimate, not a measured route length.
	metersPerMinute = 50

	// DefaultGenerationTimeout bounds the completion call.
	DefaultGenerationTimeout = 30 * time.Second
)

// generatedRoute is the shape the completion service is asked to produce.
// All numeric fields are decoded as float64: the reply is untrusted text.
type generatedRoute struct {
	Summary              string                     `json:"summary"`
	EmotionalJourney     string                     `json:"emotionalJourney"`
	ExpectedBenefit      string                     `json:"expectedBenefit"`
	Waypoints            []generatedWaypoint        `json:"waypoints"`
	MicroRecommendations []generatedRecommendation  `json:"microRecommendations"`
}

type generatedWaypoint struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Type             string  `json:"type"`
	EmotionalBenefit string  `json:"emotionalBenefit"`
	MicroAction      string  `json:"microAction"`
	EstimatedTime    float64 `json:"estimatedTime"`
	LatOffset        float64 `json:"latOffset"`
	LngOffset        float64 `json:"lngOffset"`
}

type generatedRecommendation struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Duration    float64 `json:"duration"`
}

// ServiceConfig holds dependencies for the route service.
type ServiceConfig struct {
	// LLM is the completion client used for route content (required).
	LLM llm.Client

	// Repository stores generated routes (required).
	Repository Repository

	// Timeout bounds the completion call. Zero uses DefaultGenerationTimeout.
	Timeout time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service generates, stores, and retrieves walking routes.
type Service struct {
	llm     llm.Client
	repo    Repository
	timeout time.Duration
	logger  zerolog.Logger
}

// NewService creates a new route service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Service{
		llm:     cfg.LLM,
		repo:    cfg.Repository,
		timeout: timeout,
		logger:  cfg.Logger,
	}
}

// Generate validates the input, asks the completion service for route
// content, normalizes the reply into a typed route, and stores it.
// Exactly one completion call is made per invocation; failures are
// categorized, never retried.
func (s *Service) Generate(ctx context.Context, input *models.MoodInput) (*models.RouteResponse, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.llm.CreateCompletion(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: buildPrompt(input)},
		},
		JSONOnly: true,
	})
	if err != nil {
		genErr := classifyProviderError(err)
		s.logger.Error().
			Err(err).
			Str("category", string(genErr.Category)).
			Msg("route generation failed")
		return nil, genErr
	}

	var generated generatedRoute
	if err := json.Unmarshal([]byte(completion.Content), &generated); err != nil {
		s.logger.Error().
			Err(err).
			Int("content_bytes", len(completion.Content)).
			Msg("generator reply is not valid JSON")
		return nil, &GenerationError{
			Category: GenerationMalformed,
			Message:  "Could not process the generator response. Please try again.",
			Err:      err,
		}
	}

	if len(generated.Waypoints) == 0 ||
		generated.Summary == "" ||
		generated.EmotionalJourney == "" ||
		generated.ExpectedBenefit == "" {
		return nil, &GenerationError{
			Category: GenerationIncomplete,
			Message:  "The generator response was incomplete. Please try again.",
		}
	}

	routeResp := s.normalize(input, &generated)

	saved, err := s.repo.Save(ctx, routeResp)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("route_id", saved.ID).
		Int("waypoints", len(saved.Waypoints)).
		Int("duration_minutes", saved.TotalDuration).
		Str("current_mood", string(input.CurrentMood)).
		Str("desired_mood", string(input.DesiredMood)).
		Msg("route generated")

	return saved, nil
}

// Get retrieves a stored route by id.
func (s *Service) Get(ctx context.Context, id string) (*models.RouteResponse, error) {
	return s.repo.Get(ctx, id)
}

// ListRecent retrieves the most recently generated routes.
func (s *Service) ListRecent(ctx context.Context) ([]*models.RouteResponse, error) {
	return s.repo.ListRecent(ctx)
}

// normalize maps the untrusted generated content into a typed route:
// fresh ids, absolute coordinates, the distance estimate, and the
// waypoint back-references on recommendations.
func (s *Service) normalize(input *models.MoodInput, generated *generatedRoute) *models.RouteResponse {
	baseLat := DefaultLatitude
	baseLng := DefaultLongitude
	if input.Latitude != nil {
		baseLat = *input.Latitude
	}
	if input.Longitude != nil {
		baseLng = *input.Longitude
	}

	waypoints := make([]models.Waypoint, 0, len(generated.Waypoints))
	for _, wp := range generated.Waypoints {
		waypoints = append(waypoints, models.Waypoint{
			ID:               uuid.New().String(),
			Name:             wp.Name,
			Description:      wp.Description,
			Type:             models.WaypointType(wp.Type),
			Latitude:         baseLat + clampOffset(wp.LatOffset),
			Longitude:        baseLng + clampOffset(wp.LngOffset),
			EmotionalBenefit: wp.EmotionalBenefit,
			MicroAction:      wp.MicroAction,
			EstimatedTime:    nonNegativeMinutes(wp.EstimatedTime),
		})
	}

	recommendations := make([]models.MicroRecommendation, 0, len(generated.MicroRecommendations))
	for i, rec := range generated.MicroRecommendations {
		recommendations = append(recommendations, models.MicroRecommendation{
			ID:           uuid.New().String(),
			Title:        rec.Title,
			Description:  rec.Description,
			Type:         models.RecommendationType(rec.Type),
			Duration:     nonNegativeMinutes(rec.Duration),
			AtWaypointID: waypoints[i%len(waypoints)].ID,
		})
	}

	return &models.RouteResponse{
		ID:                   uuid.New().String(),
		Summary:              generated.Summary,
		TotalDuration:        input.Duration,
		TotalDistance:        input.Duration * metersPerMinute * len(waypoints),
		EmotionalJourney:     generated.EmotionalJourney,
		ExpectedBenefit:      generated.ExpectedBenefit,
		Waypoints:            waypoints,
		MicroRecommendations: recommendations,
		StartLocation: models.StartLocation{
			Latitude:  baseLat,
			Longitude: baseLng,
			Address:   input.Location,
		},
	}
}

// classifyProviderError maps completion client failures onto generation
// categories.
func classifyProviderError(err error) *GenerationError {
	switch {
	case errors.Is(err, llm.ErrUnauthorized):
		return &GenerationError{
			Category: GenerationAuth,
			Message:  "Invalid API key. Please check the configuration.",
			Err:      err,
		}
	case errors.Is(err, llm.ErrQuotaExceeded):
		return &GenerationError{
			Category: GenerationQuota,
			Message:  "Not enough credits to generate a route. Please check your account balance.",
			Err:      err,
		}
	case errors.Is(err, llm.ErrRateLimited):
		return &GenerationError{
			Category: GenerationRateLimit,
			Message:  "Too many requests. Please try again in a few minutes.",
			Err:      err,
		}
	case errors.Is(err, llm.ErrEmptyCompletion):
		return &GenerationError{
			Category: GenerationIncomplete,
			Message:  "The generator returned no content. Please try again.",
			Err:      err,
		}
	case errors.Is(err, llm.ErrProviderUnavailable),
		errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, context.DeadlineExceeded):
		return &GenerationError{
			Category: GenerationTransient,
			Message:  "The route generator is temporarily unavailable. Please try again.",
			Err:      err,
		}
	default:
		return &GenerationError{
			Category: GenerationUnknown,
			Message:  "Failed to generate a route. Please try again.",
			Err:      err,
		}
	}
}

func clampOffset(offset float64) float64 {
	return math.Max(-maxCoordinateOffset, math.Min(maxCoordinateOffset, offset))
}

func nonNegativeMinutes(minutes float64) int {
	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0
	}
	return rounded
}
