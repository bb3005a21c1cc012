package recommend

import "sort"

// Score is one scored content id produced by a single signal.
type Score struct {
	ContentID string  `json:"content_id"`
	Value     float64 `json:"value"`
}

// sortScores orders scores descending by value, ascending by content id on
// ties, so every scorer's output is deterministic.
func sortScores(scores []Score) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Value != scores[j].Value {
			return scores[i].Value > scores[j].Value
		}
		return scores[i].ContentID < scores[j].ContentID
	})
}

// scoreMap indexes scores by content id for fusion lookups.
func scoreMap(scores []Score) map[string]float64 {
	m := make(map[string]float64, len(scores))
	for _, s := range scores {
		m[s.ContentID] = s.Value
	}
	return m
}
