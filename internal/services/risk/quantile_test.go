package risk

import (
	"math"
	"testing"
)

func TestQuantileInterpolation(t *testing.T) {
	xs := []float64{5, 1, 4, 2, 3}

	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.75, 4},
		{1, 5},
		{0.1, 1.4},
		{0.9, 4.6},
	}
	for _, c := range cases {
		got := Quantile(xs, c.p)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("quantile %v: got %v want %v", c.p, got, c.want)
		}
	}
}

func TestQuantileDoesNotMutate(t *testing.T) {
	xs := []float64{3, 1, 2}
	Quantile(xs, 0.5)
	if xs[0] != 3 || xs[1] != 1 || xs[2] != 2 {
		t.Fatalf("input mutated: %v", xs)
	}
}

func TestQuantileEmpty(t *testing.T) {
	if got := Quantile(nil, 0.5); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty sample, got %v", got)
	}
}

func TestQuantileSingleValue(t *testing.T) {
	for _, p := range []float64{0, 0.05, 0.5, 1} {
		if got := Quantile([]float64{7}, p); got != 7 {
			t.Fatalf("quantile %v of singleton: got %v", p, got)
		}
	}
}

func TestTailMean(t *testing.T) {
	xs := []float64{-3, -1, 0, 2, 5}
	got, ok := TailMean(xs, -1)
	if !ok {
		t.Fatalf("expected ok")
	}
	if math.Abs(got-(-2)) > 1e-12 {
		t.Fatalf("got %v want -2", got)
	}
}

func TestTailMeanNoObservations(t *testing.T) {
	if _, ok := TailMean([]float64{1, 2, 3}, 0); ok {
		t.Fatalf("expected ok=false when threshold excludes everything")
	}
}
