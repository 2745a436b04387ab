package scoring

import (
	"log/slog"
	"math"
)

// Aggregate combines a breakdown into one overall score using the given
// weights: round(Σ score·weight). With validated weights (sum 1.0) and
// every dimension in [0,100] the result is already within [0,100]; the
// clamp should never fire, and a warning is logged if it does because
// that means an upstream scorer broke its range contract.
func Aggregate(b Breakdown, w Weights) int {
	sum := float64(b.Language)*w.Language +
		float64(b.Level)*w.Level +
		float64(b.Semantic)*w.Semantic +
		float64(b.Schedule)*w.Schedule +
		float64(b.Goals)*w.Goals +
		float64(b.Personality)*w.Personality +
		float64(b.Topics)*w.Topics

	score := int(math.Round(sum))
	if score < 0 || score > 100 {
		slog.Warn("aggregate score out of range, clamping", "score", score, "breakdown", b)
		if score < 0 {
			score = 0
		} else {
			score = 100
		}
	}
	return score
}
