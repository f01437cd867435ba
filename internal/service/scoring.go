package service

import "math"

// PassThreshold is the minimum percentage for a passing attempt.
const PassThreshold = 75.0

// EvaluateSelection reports whether the selected answer ids are exactly the
// correct set. Order and duplicates are irrelevant; a missing correct id or an
// extra incorrect id both fail the question. The same rule covers single and
// multi-select questions.
func EvaluateSelection(correctIDs, selectedIDs []string) bool {
	correct := toSet(correctIDs)
	selected := toSet(selectedIDs)

	if len(correct) != len(selected) {
		return false
	}
	for id := range selected {
		if !correct[id] {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ScorePercentage returns 100*score/total rounded to two decimals, and 0 for
// an empty total.
func ScorePercentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*100*100) / 100
}
