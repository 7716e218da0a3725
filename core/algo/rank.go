// Package algo holds the pure numeric steps of a ranking call: weighted
// combination of backend scores and stable top-K selection.
package algo

import (
	"sort"
)

// Part is one backend's scores with the weight it contributes.
type Part struct {
	Weight float64
	Scores []float64
}

// Combine returns the weighted average of the parts, with weights
// renormalized over the parts that were supplied. Parts with a non-positive
// weight or a length different from n are ignored. ok is false when nothing
// contributed.
func Combine(n int, parts ...Part) (combined []float64, ok bool) {
	var total float64
	for _, p := range parts {
		if p.Weight > 0 && len(p.Scores) == n {
			total += p.Weight
		}
	}
	if total == 0 {
		return nil, false
	}
	combined = make([]float64, n)
	for _, p := range parts {
		if p.Weight <= 0 || len(p.Scores) != n {
			continue
		}
		w := p.Weight / total
		for i, s := range p.Scores {
			combined[i] += w * s
		}
	}
	return combined, true
}

// TopIndices returns the indices of the k highest scores in descending
// order. Equal scores keep their input order. k is clamped to len(scores).
func TopIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if k < 0 {
		k = 0
	}
	if len(idx) > k {
		return idx[:k]
	}
	return idx
}

// Uniform returns n copies of v.
func Uniform(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
