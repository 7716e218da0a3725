package textsim

import "math"

// CosineDense returns the cosine similarity of two dense vectors, clamped to
// [0, 1]. Mismatched lengths or zero vectors give 0.
func CosineDense(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return Clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
