package service

import (
	"encoding/json"
	"fmt"
)

// buildBrushUpPrompt renders the refinement request. The response schema has
// to stay in sync with BrushUpSuggestion.
func buildBrushUpPrompt(input *BrushUpInput) string {
	payload, _ := json.MarshalIndent(input, "", "  ")

	return fmt.Sprintf(`You are refining a personality diagnosis for an HR platform using newly available signals. Return ONLY valid JSON matching this schema:
{
  "featureLabels": ["up to 5 short trait labels"],
  "bigFiveDeltas": {"dimension": -5.0 to 5.0},
  "thinkingDeltas": {"dimension": -5.0 to 5.0},
  "behaviorDeltas": {"dimension": -5.0 to 5.0},
  "reasoning": "2-4 sentences explaining the adjustment",
  "confidence": 0 to 100,
  "riskFlags": ["optional concerns, e.g. contradictory signals"]
}

Rules:
- Only propose deltas the supplied signals actually support. Omit dimensions you would leave unchanged.
- Deltas beyond 5 points are clamped; do not propose them.
- confidence below 50 means the adjustment will be discarded. Be honest: if the signals are weak or contradictory, say so with a low confidence and riskFlags.
- featureLabels should be the full label set after adjustment, not additions.

Current diagnosis and collected signals:
%s`, string(payload))
}
