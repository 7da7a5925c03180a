package similarity

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cosine calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction,
// 0 means orthogonal, and -1 means opposite direction.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	if len(a) == 0 {
		return 0
	}

	// Convert float32 slices to float64 for gonum
	aFloat64 := make([]float64, len(a))
	bFloat64 := make([]float64, len(b))
	for i := range a {
		aFloat64[i] = float64(a[i])
		bFloat64[i] = float64(b[i])
	}

	dotProduct := floats.Dot(aFloat64, bFloat64)

	magA := math.Sqrt(floats.Dot(aFloat64, aFloat64))
	magB := math.Sqrt(floats.Dot(bFloat64, bFloat64))

	// Avoid division by zero
	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (magA * magB)
}

// MaxCosine returns the highest cosine similarity between query and any
// of the candidate vectors. Returns 0 for an empty candidate set.
func MaxCosine(query []float32, candidates [][]float32) float64 {
	best := 0.0
	for _, c := range candidates {
		if sim := Cosine(query, c); sim > best {
			best = sim
		}
	}
	return best
}

// Normalize scales v to unit L2 norm in place and returns it. A zero
// vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
