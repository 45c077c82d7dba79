package service

import "math"

// engagementRate is the assumed fraction of viewers who open the comments
const engagementRate = 0.20

// positionWeight returns the visibility weight for a comment at the given
// 1-based rank among top comments. Ranks beyond 50 are treated as invisible.
func positionWeight(rank int) float64 {
	switch {
	case rank <= 0:
		return 0
	case rank <= 3:
		return 1.0
	case rank <= 10:
		return 0.6
	case rank <= 20:
		return 0.3
	case rank <= 50:
		return 0.05
	default:
		return 0
	}
}

// EstimateReach estimates how many viewers saw a comment since the previous
// snapshot: the view delta scaled by the rank's visibility weight and the
// comment engagement rate.
func EstimateReach(viewDelta int64, rank int) int64 {
	if viewDelta <= 0 {
		return 0
	}
	return int64(math.Round(float64(viewDelta) * positionWeight(rank) * engagementRate))
}
