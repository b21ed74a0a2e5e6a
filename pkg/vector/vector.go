package vector

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmpty             = errors.New("vector is empty")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrNonFinite         = errors.New("vector contains NaN or Inf")
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Either side with zero magnitude yields 0. Lengths must match; callers check with Validate.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return Clamp(sim)
}

// Clamp pins a similarity into [-1, 1]; float rounding can push it slightly outside.
func Clamp(sim float64) float64 {
	switch {
	case math.IsNaN(sim):
		return 0
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length. A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	mag := Magnitude(v)
	if mag == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / mag)
	}
	return out
}

// Validate checks that candidate can be compared against a query of the given dimension.
func Validate(candidate []float32, dims int) error {
	if len(candidate) == 0 {
		return ErrEmpty
	}
	if len(candidate) != dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(candidate), dims)
	}
	for _, x := range candidate {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrNonFinite
		}
	}
	return nil
}
