// Package fingerprint implements the vector math and matching decisions for
// video fingerprints: normalization, the amplitude+phase feature map, and the
// adaptive-threshold similarity engine.
package fingerprint

import (
	"math"

	"github.com/timmy/vidguard/internal/domain"
)

// Dot returns the dot product of two equal-length vectors.
func Dot(a, b domain.Vector) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the L2 norm of v.
func Norm(v domain.Vector) float64 {
	return math.Sqrt(Dot(v, v))
}

// Normalize returns a unit-L2-norm copy of v. Normalizing an already
// normalized vector is a no-op up to floating point error, so each pipeline
// stage can normalize its output exactly once without coordinating.
// A zero vector is returned unchanged; upstream extraction guarantees a
// usable signal before any vector reaches this point.
// Parameters:
//   - v: vector to normalize.
// Returns:
//   - domain.Vector: normalized copy of v.
func Normalize(v domain.Vector) domain.Vector {
	n := Norm(v)
	if n == 0 {
		return v.Clone()
	}
	out := make(domain.Vector, len(v))
	for i := range v {
		out[i] = v[i] / n
	}
	return out
}

// Cosine returns the cosine similarity of two equal-length vectors.
// Both sides are unit-normalized by contract, so this reduces to a dot
// product, but the norms are divided out anyway to stay correct for
// callers that pass raw vectors.
// Parameters:
//   - a, b: vectors of equal length.
// Returns:
//   - float64: cosine similarity in [-1, 1].
func Cosine(a, b domain.Vector) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}
