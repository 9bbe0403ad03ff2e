package garch

import (
	"math"
	"testing"

	"ComRisk/internal/domain/models"
)

func TestVariancePathConstantModel(t *testing.T) {
	sample := []float64{1, -2, 3, -1}
	params := models.GarchParams{Omega: 0.5}
	path := variancePath(sample, params, 1.0)
	if len(path) != len(sample) {
		t.Fatalf("path length %d, want %d", len(path), len(sample))
	}
	for t2, v := range path {
		if v != 0.5 {
			t.Fatalf("constant model variance at %d: got %v want 0.5", t2, v)
		}
	}
}

func TestVariancePathRecursion(t *testing.T) {
	sample := []float64{2, -1, 3}
	params := models.GarchParams{Omega: 0.1, Alpha: []float64{0.2}, Beta: []float64{0.7}}
	backcast := 4.0
	path := variancePath(sample, params, backcast)

	// t=0 backcasts both the squared shock and the lagged variance.
	v0 := 0.1 + 0.2*backcast + 0.7*backcast
	if math.Abs(path[0]-v0) > 1e-12 {
		t.Fatalf("path[0]: got %v want %v", path[0], v0)
	}
	v1 := 0.1 + 0.2*sample[0]*sample[0] + 0.7*path[0]
	if math.Abs(path[1]-v1) > 1e-12 {
		t.Fatalf("path[1]: got %v want %v", path[1], v1)
	}
	v2 := 0.1 + 0.2*sample[1]*sample[1] + 0.7*path[1]
	if math.Abs(path[2]-v2) > 1e-12 {
		t.Fatalf("path[2]: got %v want %v", path[2], v2)
	}
}

func TestVariancePathFloored(t *testing.T) {
	sample := []float64{0, 0, 0}
	params := models.GarchParams{Omega: 0, Alpha: []float64{0}, Beta: []float64{0}}
	path := variancePath(sample, params, 0)
	for t2, v := range path {
		if v < omegaFloor {
			t.Fatalf("variance at %d fell below the floor: %v", t2, v)
		}
	}
}

func TestForecastNext(t *testing.T) {
	sample := []float64{2, -1, 3}
	params := models.GarchParams{Omega: 0.1, Alpha: []float64{0.2}, Beta: []float64{0.7}}
	backcast := 4.0
	path := variancePath(sample, params, backcast)

	got := forecastNext(sample, params, path, backcast)
	want := 0.1 + 0.2*sample[2]*sample[2] + 0.7*path[2]
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("forecast: got %v want %v", got, want)
	}
}

func TestPopulationVariance(t *testing.T) {
	if got := populationVariance([]float64{1, -1, 1, -1}); math.Abs(got-1) > 1e-12 {
		t.Fatalf("got %v want 1", got)
	}
	if got := populationVariance(nil); got != omegaFloor {
		t.Fatalf("empty sample: got %v want floor", got)
	}
	if got := populationVariance([]float64{0, 0}); got != omegaFloor {
		t.Fatalf("zero sample: got %v want floor", got)
	}
}

func TestParamsFromVectorProjection(t *testing.T) {
	params := paramsFromVector([]float64{-5, -0.1, 0.5}, 1, 1)
	if params.Omega != omegaFloor {
		t.Fatalf("omega not floored: %v", params.Omega)
	}
	if params.Alpha[0] != 0 {
		t.Fatalf("negative alpha not clipped: %v", params.Alpha[0])
	}
	if params.Beta[0] != 0.5 {
		t.Fatalf("feasible beta changed: %v", params.Beta[0])
	}
}

func TestVectorRoundTrip(t *testing.T) {
	params := models.GarchParams{Omega: 0.3, Alpha: []float64{0.1, 0.05}, Beta: []float64{0.6}}
	x := vectorFromParams(params)
	back := paramsFromVector(x, 2, 1)
	if back.Omega != params.Omega || back.Alpha[0] != 0.1 || back.Alpha[1] != 0.05 || back.Beta[0] != 0.6 {
		t.Fatalf("round trip mangled params: %+v", back)
	}
}

func TestNegLogLikelihoodConstantModel(t *testing.T) {
	sample := []float64{1, -1, 2, -2}
	omega := 2.0
	obj := negLogLikelihood(sample, 0, 0, populationVariance(sample))

	got := obj([]float64{omega})
	want := 0.0
	for _, y := range sample {
		want -= -0.5*log2Pi - 0.5*math.Log(omega) - 0.5*y*y/omega
	}
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	if got := NewEngine(0, nil).Scale(); got != DefaultScale {
		t.Fatalf("zero scale should select the default, got %v", got)
	}
	if got := NewEngine(100, nil).Scale(); got != 100 {
		t.Fatalf("explicit scale lost: %v", got)
	}
}
