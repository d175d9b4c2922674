package fingerprint

import (
	"math"

	"github.com/timmy/vidguard/internal/domain"
)

// DefaultAlpha is the phase-encoding coefficient used when none is configured.
const DefaultAlpha = 0.7

// FeatureMap applies the quantum-inspired hybrid amplitude+phase mapping:
// the output is [v, sin(alpha*v)], twice the input dimensionality.
//
// The amplitude half retains the original features; the sinusoidal half adds
// nonlinear phase information that keeps distinct vectors from collapsing into
// the same cosine-similarity bucket after normalization. It is a feature-space
// transform only, with no cryptographic meaning.
//
// The function is pure and must not normalize: normalization happens exactly
// once outside, both before and after mapping. It is applied identically on
// every analysis so historical reference vectors stay comparable.
// Parameters:
//   - v: base embedding vector (not required to be pre-normalized).
//   - alpha: phase-encoding coefficient.
// Returns:
//   - domain.Vector: mapped vector of length 2*len(v).
func FeatureMap(v domain.Vector, alpha float64) domain.Vector {
	out := make(domain.Vector, 2*len(v))
	copy(out, v)
	for i, x := range v {
		out[len(v)+i] = math.Sin(alpha * x)
	}
	return out
}
