// Package nominatim provides a client for the OpenStreetMap Nominatim
// geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/geocode"
	"github.com/moodwalk/moodwalk/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultTimeout bounds a single lookup.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies this service to Nominatim, per its usage
	// policy.
	DefaultUserAgent = "MoodWalk/1.0 (https://github.com/moodwalk)"

	// DefaultAcceptLanguage is sent with every lookup.
	DefaultAcceptLanguage = "en"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public
	// instance).
	BaseURL string

	// UserAgent overrides the identifying User-Agent header.
	UserAgent string

	// AcceptLanguage overrides the Accept-Language header.
	AcceptLanguage string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a circuit-broken client without retries; pacing toward
	// Nominatim is the caller's policy, not retry.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim search/reverse client.
type Client struct {
	baseURL        string
	userAgent      string
	acceptLanguage string
	httpClient     HTTPDoer
	logger         zerolog.Logger
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	acceptLanguage := cfg.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = DefaultAcceptLanguage
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName, timeout))
	}

	return &Client{
		baseURL:        baseURL,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
		httpClient:     httpClient,
		logger:         cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search returns address suggestions for a free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]geocode.Suggestion, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	// Nominatim reports some failures as a JSON object with an "error"
	// field under HTTP 200.
	if msg := upstreamError(body); msg != "" {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryUnknown,
			Message:  msg,
		}
	}

	var suggestions []geocode.Suggestion
	if err := json.Unmarshal(body, &suggestions); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Debug().
		Int("results", len(suggestions)).
		Msg("received suggestions from Nominatim")

	return suggestions, nil
}

// Reverse resolves a coordinate pair to an address.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*geocode.Suggestion, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	body, err := c.get(ctx, "/reverse", params)
	if err != nil {
		return nil, err
	}

	if msg := upstreamError(body); msg != "" {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryUnknown,
			Message:  msg,
		}
	}

	var suggestion geocode.Suggestion
	if err := json.Unmarshal(body, &suggestion); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &suggestion, nil
}

// get executes a GET against the given path and returns the response body,
// with upstream failures mapped to geocode errors.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept-Language", c.acceptLanguage)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &geocode.Error{
				Provider: ProviderName,
				Category: geocode.CategoryTimeout,
				Message:  "geocoding request timed out",
				Err:      err,
			}
		}
		return nil, &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryUnknown,
			Message:  "failed to reach geocoding provider",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode)
	}

	return body, nil
}

// handleErrorResponse maps Nominatim status codes to lookup categories.
func (c *Client) handleErrorResponse(statusCode int) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryRateLimited,
			Message:  "geocoding rate limit exceeded",
		}
	case http.StatusForbidden:
		return &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryForbidden,
			Message:  "geocoding access denied",
		}
	case http.StatusGatewayTimeout:
		return &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryTimeout,
			Message:  "geocoding provider timed out",
		}
	default:
		return &geocode.Error{
			Provider: ProviderName,
			Category: geocode.CategoryUnknown,
			Message:  fmt.Sprintf("geocoding provider returned status %d", statusCode),
		}
	}
}

// upstreamError extracts the "error" field Nominatim sometimes embeds in
// an otherwise successful JSON response.
func upstreamError(body []byte) string {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.Error
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ensure Client implements geocode.Searcher.
var _ geocode.Searcher = (*Client)(nil)
