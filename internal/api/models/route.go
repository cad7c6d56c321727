// Package models provides request and response models for the MoodWalk API.
package models

// Mood represents an emotional state that a walk starts from or aims for.
type Mood string

const (
	MoodStressed Mood = "stressed"
	MoodAnxious  Mood = "anxious"
	MoodSad      Mood = "sad"
	MoodTired    Mood = "tired"
	MoodNeutral  Mood = "neutral"
	MoodCalm     Mood = "calm"
	MoodHappy    Mood = "happy"
)

// Moods lists every supported mood in selector order.
var Moods = []Mood{
	MoodStressed,
	MoodAnxious,
	MoodSad,
	MoodTired,
	MoodNeutral,
	MoodCalm,
	MoodHappy,
}

// ActivityLevel represents the walking intensity preference.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// ActivityLevels lists every supported activity level.
var ActivityLevels = []ActivityLevel{
	ActivityLow,
	ActivityMedium,
	ActivityHigh,
}

// Durations lists the supported walk durations in minutes.
var Durations = []int{15, 30, 45, 60}

// WaypointType categorizes a stop along the route.
type WaypointType string

const (
	WaypointPark   WaypointType = "park"
	WaypointCafe   WaypointType = "cafe"
	WaypointScenic WaypointType = "scenic"
	WaypointQuiet  WaypointType = "quiet"
	WaypointWater  WaypointType = "water"
	WaypointNature WaypointType = "nature"
	WaypointUrban  WaypointType = "urban"
	WaypointRest   WaypointType = "rest"
)

// WaypointTypes lists every supported waypoint type.
var WaypointTypes = []WaypointType{
	WaypointPark,
	WaypointCafe,
	WaypointScenic,
	WaypointQuiet,
	WaypointWater,
	WaypointNature,
	WaypointUrban,
	WaypointRest,
}

// RecommendationType categorizes a wellness micro-recommendation.
type RecommendationType string

const (
	RecommendationBreathing   RecommendationType = "breathing"
	RecommendationObservation RecommendationType = "observation"
	RecommendationMovement    RecommendationType = "movement"
	RecommendationRest        RecommendationType = "rest"
	RecommendationMindfulness RecommendationType = "mindfulness"
)

// RecommendationTypes lists every supported recommendation type.
var RecommendationTypes = []RecommendationType{
	RecommendationBreathing,
	RecommendationObservation,
	RecommendationMovement,
	RecommendationRest,
	RecommendationMindfulness,
}

// MoodInput is the body of POST /api/generate-route.
// Latitude and Longitude are optional: when absent the generator falls back
// to a fixed default start coordinate.
type MoodInput struct {
	CurrentMood   Mood          `json:"currentMood"`
	DesiredMood   Mood          `json:"desiredMood"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Duration      int           `json:"duration"`
	Location      string        `json:"location"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
}

// Waypoint is a single stop along a generated route, in walking order.
type Waypoint struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Type             WaypointType `json:"type"`
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	EmotionalBenefit string       `json:"emotionalBenefit"`
	MicroAction      string       `json:"microAction,omitempty"`
	// EstimatedTime is the walking time from the previous point in minutes.
	EstimatedTime int `json:"estimatedTime"`
}

// MicroRecommendation is a short wellness activity suggested during the walk.
// AtWaypointID, when set, references a waypoint id in the same route.
type MicroRecommendation struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Type         RecommendationType `json:"type"`
	Duration     int                `json:"duration"`
	AtWaypointID string             `json:"atWaypointId,omitempty"`
}

// StartLocation is the resolved starting point of a route.
type StartLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// RouteResponse is a fully generated walking route.
type RouteResponse struct {
	ID                   string                `json:"id"`
	Summary              string                `json:"summary"`
	TotalDuration        int                   `json:"totalDuration"`
	TotalDistance        int                   `json:"totalDistance"`
	EmotionalJourney     string                `json:"emotionalJourney"`
	ExpectedBenefit      string                `json:"expectedBenefit"`
	Waypoints            []Waypoint            `json:"waypoints"`
	MicroRecommendations []MicroRecommendation `json:"microRecommendations"`
	StartLocation        StartLocation         `json:"startLocation"`
}

// LatLng is a coordinate pair in a route geometry.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RouteGeometry is the street-level walking path for a stored route,
// fetched from the external routing service.
type RouteGeometry struct {
	RouteID         string   `json:"routeId"`
	DistanceMeters  int      `json:"distanceMeters"`
	DurationSeconds int      `json:"durationSeconds"`
	Coordinates     []LatLng `json:"coordinates"`
}

// Enums lists the enumerated values used by the API, for UI selectors.
type Enums struct {
	Moods               []Mood               `json:"moods"`
	ActivityLevels      []ActivityLevel      `json:"activityLevels"`
	Durations           []int                `json:"durations"`
	WaypointTypes       []WaypointType       `json:"waypointTypes"`
	RecommendationTypes []RecommendationType `json:"recommendationTypes"`
}

// Health is the body of the ops health and readiness endpoints.
type Health struct {
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}
