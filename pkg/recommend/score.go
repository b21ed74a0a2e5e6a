package recommend

import "math"

const (
	reachPenalty = 20
	reachFloor   = 50
	maxScore     = 100
)

// TargetScore maps a cosine similarity to a 0-100 score.
func TargetScore(similarity float64) int {
	return clampScore(int(math.Round(similarity * 100)))
}

// ReachScore discounts a similarity by 20 points but never drops below 50.
func ReachScore(similarity float64) int {
	score := int(math.Round(similarity*100)) - reachPenalty
	if score < reachFloor {
		score = reachFloor
	}
	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
