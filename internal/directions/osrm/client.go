// Package osrm provides a client for the OSRM route API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/directions"
	"github.com/moodwalk/moodwalk/internal/provider/resilience"
	"github.com/moodwalk/moodwalk/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public demo
	// server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with retry defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM route API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// osrmResponse is the OSRM route API response.
type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// GetWalkingPath fetches a walking path visiting the given points in order.
func (c *Client) GetWalkingPath(ctx context.Context, points []polyline.Coordinate) (*directions.Path, error) {
	if len(points) < 2 {
		return nil, &directions.Error{
			Provider: ProviderName,
			Code:     "TOO_FEW_POINTS",
			Message:  "a walking path needs at least two points",
			Err:      directions.ErrInvalidCoordinates,
		}
	}
	for _, p := range points {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return nil, &directions.Error{
				Provider: ProviderName,
				Code:     "OUT_OF_RANGE",
				Message:  "coordinates out of range",
				Err:      directions.ErrInvalidCoordinates,
			}
		}
	}

	// OSRM takes semicolon-separated lon,lat pairs in the path.
	pairs := make([]string, 0, len(points))
	for _, p := range points {
		pairs = append(pairs, formatCoord(p.Lon)+","+formatCoord(p.Lat))
	}

	url := fmt.Sprintf("%s/route/v1/foot/%s?overview=full&geometries=polyline",
		c.baseURL, strings.Join(pairs, ";"))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Int("points", len(points)).
		Msg("requesting walking path from OSRM")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &directions.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      directions.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &directions.Error{
				Provider: ProviderName,
				Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message:  fmt.Sprintf("routing provider returned status %d", resp.StatusCode),
				Err:      directions.ErrProviderUnavailable,
			}
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// OSRM reports failures via the code field, usually with HTTP 400.
	if osrmResp.Code != "Ok" {
		return nil, c.handleErrorCode(osrmResp.Code, osrmResp.Message)
	}
	if len(osrmResp.Routes) == 0 {
		return nil, &directions.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no walking path found between the given points",
			Err:      directions.ErrNoPathFound,
		}
	}

	r := osrmResp.Routes[0]
	path := &directions.Path{
		Coordinates:     polyline.Decode(r.Geometry),
		DistanceMeters:  int(math.Round(r.Distance)),
		DurationSeconds: int(math.Round(r.Duration)),
		Provider:        ProviderName,
		FetchedAt:       time.Now(),
	}

	c.logger.Debug().
		Int("coordinates", len(path.Coordinates)).
		Int("distance_meters", path.DistanceMeters).
		Msg("received walking path from OSRM")

	return path, nil
}

// handleErrorCode maps OSRM error codes to domain errors.
func (c *Client) handleErrorCode(code, message string) error {
	if message == "" {
		message = "routing provider rejected the request"
	}

	switch code {
	case "NoRoute", "NoSegment":
		return &directions.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  message,
			Err:      directions.ErrNoPathFound,
		}
	case "InvalidQuery", "InvalidValue", "InvalidUrl":
		return &directions.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  message,
			Err:      directions.ErrInvalidCoordinates,
		}
	default:
		return &directions.Error{
			Provider: ProviderName,
			Code:     code,
			Message:  message,
			Err:      directions.ErrProviderUnavailable,
		}
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Ensure Client implements directions.Provider.
var _ directions.Provider = (*Client)(nil)
