package risk

import (
	"errors"
	"math"
	"testing"

	domrisk "ComRisk/internal/domain/risk"
)

func TestHistoricalEstimate(t *testing.T) {
	// Ten daily returns with an obvious left tail.
	rets := []float64{0.01, -0.02, 0.015, -0.05, 0.02, 0.005, -0.01, 0.03, -0.04, 0.01}
	h := NewHistorical()

	varLog, cvarLog, err := h.Estimate(rets, 1, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cvarLog > varLog {
		t.Fatalf("cvar %v above var %v", cvarLog, varLog)
	}
	// Worst observation bounds the tail from below.
	if cvarLog < -0.05 {
		t.Fatalf("cvar %v below worst return", cvarLog)
	}
	if varLog >= 0 {
		t.Fatalf("5%% var should be negative for this sample, got %v", varLog)
	}
}

func TestHistoricalWindowAggregation(t *testing.T) {
	rets := []float64{-0.01, -0.01, 0.02, 0.02, -0.03, 0.01}
	h := NewHistorical()

	var1, _, err := h.Estimate(rets, 1, 0.05)
	if err != nil {
		t.Fatalf("window 1: %v", err)
	}
	var2, _, err := h.Estimate(rets, 2, 0.05)
	if err != nil {
		t.Fatalf("window 2: %v", err)
	}
	// Rolling sums over a wider window shift the whole distribution;
	// the estimates must come from different samples.
	if var1 == var2 {
		t.Fatalf("window 1 and 2 produced identical var %v", var1)
	}
}

func TestHistoricalConfidenceMonotone(t *testing.T) {
	rets := []float64{0.01, -0.02, 0.015, -0.05, 0.02, 0.005, -0.01, 0.03, -0.04, 0.01}
	h := NewHistorical()

	v1, _, err := h.Estimate(rets, 1, 0.01)
	if err != nil {
		t.Fatalf("1%%: %v", err)
	}
	v5, _, err := h.Estimate(rets, 1, 0.05)
	if err != nil {
		t.Fatalf("5%%: %v", err)
	}
	if v1 > v5 {
		t.Fatalf("1%% var %v above 5%% var %v", v1, v5)
	}
}

func TestHistoricalDegenerateSample(t *testing.T) {
	// All-equal returns still have a well-defined quantile and tail.
	rets := []float64{0.01, 0.01, 0.01, 0.01}
	h := NewHistorical()
	varLog, cvarLog, err := h.Estimate(rets, 1, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(varLog-0.01) > 1e-12 || math.Abs(cvarLog-0.01) > 1e-12 {
		t.Fatalf("constant sample: var %v cvar %v", varLog, cvarLog)
	}
}

func TestHistoricalBadParams(t *testing.T) {
	h := NewHistorical()
	if _, _, err := h.Estimate([]float64{0.01, 0.02}, 0, 0.05); !errors.Is(err, domrisk.ErrInvalidParameter) {
		t.Fatalf("window 0: expected ErrInvalidParameter, got %v", err)
	}
	if _, _, err := h.Estimate([]float64{0.01, 0.02}, 1, 1); !errors.Is(err, domrisk.ErrInvalidParameter) {
		t.Fatalf("confidence 1: expected ErrInvalidParameter, got %v", err)
	}
	if _, _, err := h.Estimate([]float64{0.01}, 5, 0.05); !errors.Is(err, domrisk.ErrInsufficientData) {
		t.Fatalf("oversized window: expected ErrInsufficientData, got %v", err)
	}
}
