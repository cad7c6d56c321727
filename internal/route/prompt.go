package route

import (
	"fmt"

	"github.com/moodwalk/moodwalk/internal/api/models"
)

// systemPrompt anchors the model's role and forbids markdown wrapping.
const systemPrompt = "You are a wellness expert creating personalized walking routes. " +
	"Always respond with valid JSON only, no markdown formatting."

// buildPrompt renders the route generation instruction for a validated input.
// The output-shape section is strict: the reply must be a single JSON object
// matching generatedRoute, with waypoint coordinate offsets in [-0.01, 0.01]
// degrees relative to the start.
func buildPrompt(input *models.MoodInput) string {
	return fmt.Sprintf(`You are a wellness expert and urban planner. Create a personalized walking route for someone who is feeling %s and wants to feel %s. They have %d minutes and want a %s activity level walk starting from %s.

Generate a walking route with:
1. A short, encouraging summary (1-2 sentences)
2. An emotional journey description (how their mood will transform during the walk)
3. Expected benefit after completing the route
4. 3-5 waypoints that are realistic for the area, each with:
   - A descriptive name
   - A brief description of what's there
   - Type: one of (park, cafe, scenic, quiet, water, nature, urban, rest)
   - Emotional benefit of visiting this spot
   - Optional micro-action to do there (breathing exercise, observation, etc)
   - Estimated walking time from previous point in minutes
   - Latitude/longitude offsets from start (small random offsets between -0.01 and 0.01)
5. 2-4 micro-recommendations for wellness activities during the walk:
   - Title
   - Description of the activity
   - Type: one of (breathing, observation, movement, rest, mindfulness)
   - Duration in minutes

Consider:
- The current mood and how to gradually transition to the desired mood
- The activity level preference (low = slow gentle stroll, medium = comfortable pace, high = brisk walk)
- Time available to create an appropriately sized route
- Types of places that help with the specific mood transition
- For stressed/anxious: prioritize quiet, nature, water features
- For sad: include scenic views, cafes for warmth, nature
- For tired: shorter segments, rest spots, gentle stimulation
- For reaching calm/happy: build up positive experiences gradually

Respond with valid JSON only, no markdown:
{
  "summary": "string",
  "emotionalJourney": "string",
  "expectedBenefit": "string",
  "waypoints": [
    {
      "name": "string",
      "description": "string",
      "type": "string",
      "emotionalBenefit": "string",
      "microAction": "string or null",
      "estimatedTime": number,
      "latOffset": number,
      "lngOffset": number
    }
  ],
  "microRecommendations": [
    {
      "title": "string",
      "description": "string",
      "type": "string",
      "duration": number
    }
  ]
}`,
		input.CurrentMood, input.DesiredMood, input.Duration, input.ActivityLevel, input.Location)
}
