package osrm

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moodwalk/moodwalk/internal/directions"
	"github.com/moodwalk/moodwalk/pkg/polyline"
)

type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:    serverURL,
		HTTPClient: &mockHTTPClient{client: http.DefaultClient},
		Logger:     zerolog.Nop(),
	})
}

func walkPoints() []polyline.Coordinate {
	return []polyline.Coordinate{
		{Lat: 52.3730, Lon: 4.8924},
		{Lat: 52.3766, Lon: 4.8945},
	}
}

func TestClient_GetWalkingPath_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/route/v1/foot/") {
			t.Errorf("path = %q, want a /route/v1/foot/ request", r.URL.Path)
		}
		// lon,lat pairs, semicolon separated.
		if !strings.Contains(r.URL.Path, "4.892400,52.373000;4.894500,52.376600") {
			t.Errorf("coordinates missing from path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("overview"); got != "full" {
			t.Errorf("overview = %q, want full", got)
		}
		if got := r.URL.Query().Get("geometries"); got != "polyline" {
			t.Errorf("geometries = %q, want polyline", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{\"code\": \"Ok\", \"routes\": [{\"geometry\": \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\", \"distance\": 1532.6, \"duration\": 1104.2}]}"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	path, err := client.GetWalkingPath(context.Background(), walkPoints())
	if err != nil {
		t.Fatalf("GetWalkingPath() error = %v", err)
	}

	if path.DistanceMeters != 1533 {
		t.Errorf("DistanceMeters = %d, want 1533", path.DistanceMeters)
	}
	if path.DurationSeconds != 1104 {
		t.Errorf("DurationSeconds = %d, want 1104", path.DurationSeconds)
	}
	if path.Provider != ProviderName {
		t.Errorf("Provider = %q, want %q", path.Provider, ProviderName)
	}
	if len(path.Coordinates) != 3 {
		t.Fatalf("expected 3 decoded coordinates, got %d", len(path.Coordinates))
	}
	if math.Abs(path.Coordinates[0].Lat-38.5) > 1e-9 || math.Abs(path.Coordinates[0].Lon+120.2) > 1e-9 {
		t.Errorf("first coordinate = %+v, want 38.5,-120.2", path.Coordinates[0])
	}
}

func TestClient_GetWalkingPath_ErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantSentinel error
	}{
		{
			name:         "no route",
			body:         `{"code": "NoRoute", "message": "Impossible route between points"}`,
			wantSentinel: directions.ErrNoPathFound,
		},
		{
			name:         "no segment",
			body:         `{"code": "NoSegment", "message": "One of the supplied input coordinates could not snap to street segment"}`,
			wantSentinel: directions.ErrNoPathFound,
		},
		{
			name:         "invalid query",
			body:         `{"code": "InvalidQuery", "message": "Query string malformed"}`,
			wantSentinel: directions.ErrInvalidCoordinates,
		},
		{
			name:         "unknown code",
			body:         `{"code": "TooBig", "message": "Too many coordinates"}`,
			wantSentinel: directions.ErrProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.GetWalkingPath(context.Background(), walkPoints())

			if !errors.Is(err, tt.wantSentinel) {
				t.Fatalf("expected %v, got %v", tt.wantSentinel, err)
			}

			var pathErr *directions.Error
			if !errors.As(err, &pathErr) {
				t.Fatalf("expected a directions Error, got %T", err)
			}
			if pathErr.Provider != ProviderName {
				t.Errorf("provider = %q, want %q", pathErr.Provider, ProviderName)
			}
		})
	}
}

func TestClient_GetWalkingPath_NonJSONServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetWalkingPath(context.Background(), walkPoints())

	if !errors.Is(err, directions.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestClient_GetWalkingPath_ValidatesInput(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")

	tests := []struct {
		name   string
		points []polyline.Coordinate
	}{
		{"one point", []polyline.Coordinate{{Lat: 52.37, Lon: 4.89}}},
		{"latitude out of range", []polyline.Coordinate{{Lat: 91, Lon: 4.89}, {Lat: 52.37, Lon: 4.89}}},
		{"longitude out of range", []polyline.Coordinate{{Lat: 52.37, Lon: -181}, {Lat: 52.37, Lon: 4.89}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetWalkingPath(context.Background(), tt.points)
			if !errors.Is(err, directions.ErrInvalidCoordinates) {
				t.Errorf("expected ErrInvalidCoordinates, got %v", err)
			}
		})
	}
}
