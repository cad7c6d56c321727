package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/api"
	"github.com/moodwalk/moodwalk/internal/api/models"
	"github.com/moodwalk/moodwalk/internal/directions"
	"github.com/moodwalk/moodwalk/internal/geocode"
	"github.com/moodwalk/moodwalk/internal/llm"
	"github.com/moodwalk/moodwalk/internal/route"
	"github.com/moodwalk/moodwalk/pkg/polyline"
)

const routeCompletion = `{
	"summary": "A calming loop through green spaces",
	"emotionalJourney": "From stressed to calm",
	"expectedBenefit": "Lower stress",
	"waypoints": [
		{"name": "Willow Pond", "description": "Still water", "type": "water", "emotionalBenefit": "Stillness", "estimatedTime": 10, "latOffset": 0.002, "lngOffset": -0.003},
		{"name": "Rose Garden", "description": "A walled garden", "type": "park", "emotionalBenefit": "Focus", "estimatedTime": 12, "latOffset": -0.001, "lngOffset": 0.004},
		{"name": "Stone Bench", "description": "A quiet bench", "type": "rest", "emotionalBenefit": "Rest", "estimatedTime": 8, "latOffset": 0.005, "lngOffset": 0.001}
	],
	"microRecommendations": [
		{"title": "Box breathing", "description": "Four counts each way", "type": "breathing", "duration": 2}
	]
}`

type stubCompletionClient struct {
	content string
	err     error
}

func (s *stubCompletionClient) CreateCompletion(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content, Model: "test", FetchedAt: time.Now()}, nil
}

type stubSearcher struct {
	suggestions []geocode.Suggestion
	err         error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]geocode.Suggestion, error) {
	return s.suggestions, s.err
}

func (s *stubSearcher) Reverse(_ context.Context, _, _ float64) (*geocode.Suggestion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &geocode.Suggestion{DisplayName: "Dam, Amsterdam"}, nil
}

type stubDirections struct {
	path *directions.Path
	err  error
}

func (s *stubDirections) GetWalkingPath(_ context.Context, _ []polyline.Coordinate) (*directions.Path, error) {
	return s.path, s.err
}

type routerOptions struct {
	llm        llm.Client
	searcher   geocode.Searcher
	directions directions.Provider
}

func newTestRouter(opts routerOptions) http.Handler {
	if opts.llm == nil {
		opts.llm = &stubCompletionClient{content: routeCompletion}
	}
	if opts.searcher == nil {
		opts.searcher = &stubSearcher{}
	}

	routeService := route.NewService(route.ServiceConfig{
		LLM:        opts.llm,
		Repository: route.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Client: opts.searcher,
		Logger: zerolog.Nop(),
	})

	return api.NewRouter(api.RouterConfig{
		Version:        "test",
		Logger:         zerolog.Nop(),
		RouteService:   routeService,
		GeocodeService: geocodeService,
		Directions:     opts.directions,
	})
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

const generateBody = `{
	"currentMood": "stressed",
	"desiredMood": "calm",
	"activityLevel": "low",
	"duration": 30,
	"location": "Central Park"
}`

func TestGenerateRoute(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := postJSON(t, router, "/api/generate-route", generateBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected an X-Request-Id header")
	}

	var resp models.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected a route id")
	}
	if resp.TotalDuration != 30 {
		t.Errorf("totalDuration = %d, want 30", resp.TotalDuration)
	}
	if len(resp.Waypoints) != 3 {
		t.Errorf("waypoints = %d, want 3", len(resp.Waypoints))
	}
	if resp.TotalDistance != 30*50*3 {
		t.Errorf("totalDistance = %d, want %d", resp.TotalDistance, 30*50*3)
	}
	if resp.StartLocation.Address != "Central Park" {
		t.Errorf("startLocation.address = %q", resp.StartLocation.Address)
	}
}

func TestGenerateRoute_ValidationFailure(t *testing.T) {
	router := newTestRouter(routerOptions{})

	body := `{"currentMood": "furious", "desiredMood": "calm", "activityLevel": "low", "duration": 30, "location": "Central Park"}`
	rec := postJSON(t, router, "/api/generate-route", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errResp.Error != "Invalid input" {
		t.Errorf("error = %q", errResp.Error)
	}
	if len(errResp.Details) == 0 {
		t.Fatal("expected field-level details")
	}
	if errResp.Details[0].Field != "currentMood" {
		t.Errorf("details[0].field = %q, want currentMood", errResp.Details[0].Field)
	}
}

func TestGenerateRoute_MalformedBody(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := postJSON(t, router, "/api/generate-route", `{"currentMood": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateRoute_ProviderFailureStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthorized", llm.ErrUnauthorized, http.StatusUnauthorized},
		{"quota exceeded", llm.ErrQuotaExceeded, http.StatusPaymentRequired},
		{"rate limited", llm.ErrRateLimited, http.StatusTooManyRequests},
		{"unavailable", llm.ErrProviderUnavailable, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := &llm.Error{Provider: "openrouter", Message: tt.name, Err: tt.err}
			router := newTestRouter(routerOptions{llm: &stubCompletionClient{err: wrapped}})

			rec := postJSON(t, router, "/api/generate-route", generateBody)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var errResp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if errResp.Message == "" {
				t.Error("expected a user-facing message")
			}
		})
	}
}

func TestGetRoute(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := postJSON(t, router, "/api/generate-route", generateBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}
	var generated models.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &generated); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	rec = get(t, router, "/api/routes/"+generated.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var fetched models.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if fetched.ID != generated.ID {
		t.Errorf("fetched id = %q, want %q", fetched.ID, generated.ID)
	}
}

func TestGetRoute_NotFound(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := get(t, router, "/api/routes/unknown-id")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errResp.Error != "Route not found" {
		t.Errorf("error = %q", errResp.Error)
	}
}

func TestListRoutes(t *testing.T) {
	router := newTestRouter(routerOptions{})

	for i := 0; i < 2; i++ {
		if rec := postJSON(t, router, "/api/generate-route", generateBody); rec.Code != http.StatusOK {
			t.Fatalf("generate %d status = %d", i, rec.Code)
		}
	}

	rec := get(t, router, "/api/routes")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var routes []models.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("expected 2 routes, got %d", len(routes))
	}
}

func TestSearchAddress(t *testing.T) {
	searcher := &stubSearcher{suggestions: []geocode.Suggestion{
		{DisplayName: "Dam, Amsterdam, Netherlands", Lat: "52.3730", Lon: "4.8924"},
	}}
	router := newTestRouter(routerOptions{searcher: searcher})

	rec := get(t, router, "/api/search-address?q=dam+square")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var suggestions []geocode.Suggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].DisplayName != "Dam, Amsterdam, Netherlands" {
		t.Errorf("suggestions = %+v", suggestions)
	}
}

func TestSearchAddress_ShortQuery(t *testing.T) {
	for _, query := range []string{"ab", "ки"} {
		t.Run(query, func(t *testing.T) {
			router := newTestRouter(routerOptions{})

			rec := get(t, router, "/api/search-address?q="+url.QueryEscape(query))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
				t.Errorf("body = %q, want an empty array", got)
			}
		})
	}
}

func TestSearchAddress_UpstreamFailureStatus(t *testing.T) {
	tests := []struct {
		name       string
		category   geocode.Category
		wantStatus int
	}{
		{"timeout", geocode.CategoryTimeout, http.StatusGatewayTimeout},
		{"rate limited", geocode.CategoryRateLimited, http.StatusTooManyRequests},
		{"forbidden", geocode.CategoryForbidden, http.StatusForbidden},
		{"unknown", geocode.CategoryUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{err: &geocode.Error{
				Provider: "nominatim",
				Category: tt.category,
				Message:  tt.name,
			}}
			router := newTestRouter(routerOptions{searcher: searcher})

			rec := get(t, router, "/api/search-address?q=dam+square")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestReverseGeocode(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := get(t, router, "/api/reverse-geocode?lat=52.373&lon=4.8924")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var suggestion geocode.Suggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &suggestion); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if suggestion.DisplayName != "Dam, Amsterdam" {
		t.Errorf("DisplayName = %q", suggestion.DisplayName)
	}
}

func TestReverseGeocode_BadCoordinates(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := get(t, router, "/api/reverse-geocode?lat=north&lon=4.89")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetRouteGeometry(t *testing.T) {
	provider := &stubDirections{path: &directions.Path{
		Coordinates: []polyline.Coordinate{
			{Lat: 40.7128, Lon: -74.0060},
			{Lat: 40.7148, Lon: -74.0030},
		},
		DistanceMeters:  1200,
		DurationSeconds: 900,
		Provider:        "osrm",
	}}
	router := newTestRouter(routerOptions{directions: provider})

	rec := postJSON(t, router, "/api/generate-route", generateBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}
	var generated models.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &generated); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	rec = get(t, router, "/api/routes/"+generated.ID+"/geometry")
	if rec.Code != http.StatusOK {
		t.Fatalf("geometry status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var geometry models.RouteGeometry
	if err := json.Unmarshal(rec.Body.Bytes(), &geometry); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if geometry.RouteID != generated.ID {
		t.Errorf("routeId = %q, want %q", geometry.RouteID, generated.ID)
	}
	if geometry.DistanceMeters != 1200 || len(geometry.Coordinates) != 2 {
		t.Errorf("geometry = %+v", geometry)
	}
}

func TestGetRouteGeometry_ProviderFailure(t *testing.T) {
	provider := &stubDirections{err: &directions.Error{
		Provider: "osrm",
		Code:     "NO_ROUTE",
		Message:  "no path",
		Err:      directions.ErrNoPathFound,
	}}
	router := newTestRouter(routerOptions{directions: provider})

	rec := postJSON(t, router, "/api/generate-route", generateBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}
	var generated models.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &generated); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	rec = get(t, router, "/api/routes/"+generated.ID+"/geometry")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestMetadataEnums(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := get(t, router, "/api/metadata/enums")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var enums models.Enums
	if err := json.Unmarshal(rec.Body.Bytes(), &enums); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(enums.Moods) != 7 {
		t.Errorf("moods = %d, want 7", len(enums.Moods))
	}
	if len(enums.ActivityLevels) != 3 {
		t.Errorf("activityLevels = %d, want 3", len(enums.ActivityLevels))
	}
	if len(enums.Durations) != 4 {
		t.Errorf("durations = %d, want 4", len(enums.Durations))
	}
}

func TestOpsEndpoints(t *testing.T) {
	router := newTestRouter(routerOptions{})

	for _, path := range []string{"/api/ops/health", "/api/ops/ready"} {
		rec := get(t, router, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
			continue
		}
		var health models.Health
		if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
			t.Fatalf("decoding %s response: %v", path, err)
		}
		if health.Status != "OK" {
			t.Errorf("%s status field = %q", path, health.Status)
		}
	}
}
