package fingerprint

import (
	"math"
	"testing"

	"github.com/timmy/vidguard/internal/domain"
)

func TestFeatureMapDoublesDimensions(t *testing.T) {
	v := domain.Vector{0.1, -0.2, 0.3}
	got := FeatureMap(v, DefaultAlpha)

	if len(got) != 2*len(v) {
		t.Fatalf("len = %d, want %d", len(got), 2*len(v))
	}
}

func TestFeatureMapLayout(t *testing.T) {
	v := domain.Vector{0.5, -1.0}
	got := FeatureMap(v, DefaultAlpha)

	// amplitude half carries the input unchanged
	for i := range v {
		if got[i] != v[i] {
			t.Errorf("amplitude[%d] = %v, want %v", i, got[i], v[i])
		}
	}
	// phase half is sin(alpha * v)
	for i := range v {
		want := math.Sin(DefaultAlpha * v[i])
		if math.Abs(got[len(v)+i]-want) > eps {
			t.Errorf("phase[%d] = %v, want %v", i, got[len(v)+i], want)
		}
	}
}

func TestFeatureMapDeterministic(t *testing.T) {
	v := domain.Vector{0.3, 0.7, -0.4, 0.9}
	a := FeatureMap(v, DefaultAlpha)
	b := FeatureMap(v, DefaultAlpha)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d differs between identical calls: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFeatureMapDoesNotNormalize(t *testing.T) {
	v := domain.Vector{3, 4}
	got := FeatureMap(v, DefaultAlpha)

	if math.Abs(Norm(got)-1) < 0.01 {
		t.Error("mapped vector is unit norm; mapping must not normalize")
	}
	if got[0] != 3 || got[1] != 4 {
		t.Errorf("amplitude half rescaled: %v", got[:2])
	}
}

func TestFeatureMapDoesNotMutateInput(t *testing.T) {
	v := domain.Vector{0.1, 0.2}
	FeatureMap(v, DefaultAlpha)

	if v[0] != 0.1 || v[1] != 0.2 {
		t.Errorf("input mutated: %v", v)
	}
}
