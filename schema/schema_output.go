package schema

// Match label values, from the strongest to the weakest.
const (
	StrongMatch = "Strong"
	GoodMatch   = "Good"
	FairMatch   = "Fair"
	WeakMatch   = "Weak"
)

// EnrichedResult adds presentation data to a ScoredCandidate.
type EnrichedResult struct {
	Label string `json:"label"`
	ScoredCandidate
}

// GetPlainLabel returns a plain text label for a score in [0, 1].
func GetPlainLabel(score float64) string {
	switch {
	case score >= 0.75:
		return StrongMatch
	case score >= 0.5:
		return GoodMatch
	case score >= 0.25:
		return FairMatch
	default:
		return WeakMatch
	}
}

// EnrichResults adds labels to a list of ranked results.
func EnrichResults(results []ScoredCandidate) []EnrichedResult {
	output := make([]EnrichedResult, len(results))
	for i, r := range results {
		output[i] = EnrichedResult{
			Label:           GetPlainLabel(r.Score),
			ScoredCandidate: r,
		}
	}
	return output
}
