// Package vector provides the similarity math over embeddings.
package vector

import "math"

// Cosine returns the cosine similarity of a and b.
// Empty vectors, vectors of different length and zero-norm vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	magnitude := math.Sqrt(magA) * math.Sqrt(magB)
	if magnitude == 0 {
		return 0
	}
	return dot / magnitude
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length and converts it to float32.
// A zero vector is returned as zeros.
func Normalize(v []float64) []float32 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	mag := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(x / mag)
	}
	return out
}
