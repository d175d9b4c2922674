package fingerprint

import (
	"math"
	"testing"

	"github.com/timmy/vidguard/internal/domain"
)

const eps = 1e-9

func TestDot(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Vector
		want float64
	}{
		{"orthogonal", domain.Vector{1, 0}, domain.Vector{0, 1}, 0},
		{"parallel", domain.Vector{1, 2, 3}, domain.Vector{1, 2, 3}, 14},
		{"opposite", domain.Vector{1, 0}, domain.Vector{-1, 0}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dot(tt.a, tt.b); math.Abs(got-tt.want) > eps {
				t.Errorf("Dot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	v := domain.Vector{3, 4}
	got := Normalize(v)

	if math.Abs(Norm(got)-1) > eps {
		t.Errorf("Norm(Normalize(v)) = %v, want 1", Norm(got))
	}
	if got[0] != 0.6 || got[1] != 0.8 {
		t.Errorf("Normalize() = %v, want [0.6 0.8]", got)
	}
	// input must not be mutated
	if v[0] != 3 || v[1] != 4 {
		t.Errorf("Normalize mutated its input: %v", v)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	v := Normalize(domain.Vector{0.2, -1.5, 3.1, 0.4})
	again := Normalize(v)

	for i := range v {
		if math.Abs(v[i]-again[i]) > eps {
			t.Errorf("component %d changed on re-normalization: %v vs %v", i, v[i], again[i])
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize(domain.Vector{0, 0, 0})
	for i, x := range got {
		if x != 0 {
			t.Errorf("component %d = %v, want 0", i, x)
		}
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Vector
		want float64
	}{
		{"identical", domain.Vector{1, 2, 3}, domain.Vector{1, 2, 3}, 1},
		{"orthogonal", domain.Vector{1, 0}, domain.Vector{0, 1}, 0},
		{"opposite", domain.Vector{1, 0}, domain.Vector{-1, 0}, -1},
		{"unnormalized identical", domain.Vector{2, 4}, domain.Vector{1, 2}, 1},
		{"zero guard", domain.Vector{0, 0}, domain.Vector{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > eps {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}
