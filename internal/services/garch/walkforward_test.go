package garch

import (
	"context"
	"errors"
	"math"
	"testing"

	domrisk "ComRisk/internal/domain/risk"
)

func TestWalkForward(t *testing.T) {
	sample := simulateGarch11(80, 4e-5, 0.1, 0.8, 17)
	train, test := SplitSample(sample, 0.9)
	e := NewEngine(DefaultScale, nil)

	res, err := e.WalkForward(context.Background(), train, test, 1, 1, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TrainSize != len(train) || res.TestSize != len(test) {
		t.Fatalf("sizes %d/%d, want %d/%d", res.TrainSize, res.TestSize, len(train), len(test))
	}
	if len(res.Forecasts) != len(test) {
		t.Fatalf("%d forecasts for %d held-out observations", len(res.Forecasts), len(test))
	}
	for i, f := range res.Forecasts {
		if f.Sigma <= 0 || math.IsNaN(f.Sigma) {
			t.Fatalf("forecast %d sigma not positive: %v", i, f.Sigma)
		}
		if f.VaR <= 0 || math.IsNaN(f.VaR) {
			t.Fatalf("forecast %d var not positive: %v", i, f.VaR)
		}
		// Left-tail confidence maps to a VaR multiplier below one.
		if f.VaR >= 1 {
			t.Fatalf("forecast %d var %v not in the left tail", i, f.VaR)
		}
		if f.Observed != test[i]*e.Scale() {
			t.Fatalf("forecast %d observed %v, want scaled %v", i, f.Observed, test[i]*e.Scale())
		}
	}
	// Each held-out observation folds into the final fit.
	if res.FinalFit == nil || res.FinalFit.SampleSize != len(train)+len(test) {
		t.Fatalf("final fit did not absorb the test segment: %+v", res.FinalFit)
	}
	if res.Scale != e.Scale() || res.Confidence != 0.05 || res.P != 1 || res.Q != 1 {
		t.Fatalf("run metadata wrong: %+v", res)
	}
}

func TestWalkForwardVarTranslation(t *testing.T) {
	sample := simulateGarch11(60, 4e-5, 0.1, 0.8, 29)
	train, test := SplitSample(sample, 0.95)
	e := NewEngine(DefaultScale, nil)

	res, err := e.WalkForward(context.Background(), train, test, 1, 1, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// VaR must be exp(sigma/scale * z_p) for every step.
	z := -1.6448536269514729
	for i, f := range res.Forecasts {
		want := math.Exp(f.Sigma / e.Scale() * z)
		if math.Abs(f.VaR-want) > 1e-9 {
			t.Fatalf("forecast %d var %v, want %v", i, f.VaR, want)
		}
	}
}

func TestWalkForwardRejectsBadInputs(t *testing.T) {
	e := NewEngine(DefaultScale, nil)
	ctx := context.Background()
	sample := simulateGarch11(60, 4e-5, 0.1, 0.8, 3)

	if _, err := e.WalkForward(ctx, sample, nil, 1, 1, 0.05); !errors.Is(err, domrisk.ErrInsufficientData) {
		t.Fatalf("empty test: expected ErrInsufficientData, got %v", err)
	}
	if _, err := e.WalkForward(ctx, sample[:50], sample[50:], 1, 1, 0); !errors.Is(err, domrisk.ErrInvalidParameter) {
		t.Fatalf("confidence 0: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := e.WalkForward(ctx, sample[:5], sample[5:], 1, 1, 0.05); !errors.Is(err, domrisk.ErrInsufficientData) {
		t.Fatalf("tiny train: expected ErrInsufficientData, got %v", err)
	}
}

func TestSplitSample(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	train, test := SplitSample(xs, 0.8)
	if len(train) != 8 || len(test) != 2 {
		t.Fatalf("split %d/%d, want 8/2", len(train), len(test))
	}
	if train[7] != 8 || test[0] != 9 {
		t.Fatalf("split moved observations: train ends %v, test starts %v", train[7], test[0])
	}

	train, test = SplitSample(xs, 0)
	if len(train) != 0 || len(test) != 10 {
		t.Fatalf("zero fraction split %d/%d", len(train), len(test))
	}
	train, test = SplitSample(xs, 1)
	if len(train) != 10 || len(test) != 0 {
		t.Fatalf("full fraction split %d/%d", len(train), len(test))
	}
}

func TestCheckContinuity(t *testing.T) {
	train := []float64{1, 2}
	test := []float64{3}
	if err := checkContinuity([]float64{1, 2, 3}, train, test); err != nil {
		t.Fatalf("valid expansion rejected: %v", err)
	}
	if err := checkContinuity([]float64{1, 2}, train, test); !errors.Is(err, domrisk.ErrInvalidData) {
		t.Fatalf("short expansion: expected ErrInvalidData, got %v", err)
	}
	if err := checkContinuity([]float64{1, 9, 3}, train, test); !errors.Is(err, domrisk.ErrInvalidData) {
		t.Fatalf("mutated train: expected ErrInvalidData, got %v", err)
	}
	if err := checkContinuity([]float64{1, 2, 9}, train, test); !errors.Is(err, domrisk.ErrInvalidData) {
		t.Fatalf("mutated test: expected ErrInvalidData, got %v", err)
	}
}
