package returns

import (
	"errors"
	"math"
	"testing"
	"time"

	"ComRisk/internal/domain/models"
	domrisk "ComRisk/internal/domain/risk"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func pricePoints(closes ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{Date: day(i), Symbol: "CL", Close: c}
	}
	return out
}

func TestFromPrices(t *testing.T) {
	closes := []float64{100, 105, 98, 102, 110}
	rets, err := FromPrices(pricePoints(closes...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rets) != len(closes)-1 {
		t.Fatalf("expected %d returns, got %d", len(closes)-1, len(rets))
	}
	for i, r := range rets {
		want := math.Log(closes[i+1] / closes[i])
		if math.Abs(r.Value-want) > 1e-12 {
			t.Fatalf("return %d: got %v want %v", i, r.Value, want)
		}
		if !r.Date.Equal(day(i)) {
			t.Fatalf("return %d carries date %v, want %v", i, r.Date, day(i))
		}
	}
}

func TestFromPricesTooShort(t *testing.T) {
	_, err := FromPrices(pricePoints(100))
	if !errors.Is(err, domrisk.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestFromPricesNonPositiveClose(t *testing.T) {
	_, err := FromPrices(pricePoints(100, 0, 102))
	if !errors.Is(err, domrisk.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestFromPricesUnorderedDates(t *testing.T) {
	pts := pricePoints(100, 101, 102)
	pts[2].Date = pts[0].Date
	_, err := FromPrices(pts)
	if !errors.Is(err, domrisk.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestRollingSum(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}

	got := RollingSum(xs, 2)
	want := []float64{3, 5, 7, 9}
	if len(got) != len(want) {
		t.Fatalf("expected %d sums, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sum %d: got %v want %v", i, got[i], want[i])
		}
	}

	if got := RollingSum(xs, 5); len(got) != 1 || math.Abs(got[0]-15) > 1e-12 {
		t.Fatalf("full-window sum: got %v", got)
	}
	if got := RollingSum(xs, 6); len(got) != 0 {
		t.Fatalf("oversized window should leave no sums, got %v", got)
	}
}

func TestRollingSumWindowOne(t *testing.T) {
	xs := []float64{0.1, -0.2, 0.3}
	got := RollingSum(xs, 1)
	if len(got) != len(xs) {
		t.Fatalf("expected identity length, got %d", len(got))
	}
	for i := range xs {
		if got[i] != xs[i] {
			t.Fatalf("window 1 should be identity, index %d: %v", i, got[i])
		}
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{1, 2, 3, 4, 5})
	if math.Abs(mean-3) > 1e-12 {
		t.Fatalf("mean: got %v", mean)
	}
	if math.Abs(std-math.Sqrt(2.5)) > 1e-12 {
		t.Fatalf("std: got %v", std)
	}
}

func TestAnnualizedVol(t *testing.T) {
	got := AnnualizedVol(0.01, 252)
	want := 0.01 * math.Sqrt(252)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}
