package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"ComRisk/internal/domain/models"
	domrepo "ComRisk/internal/domain/repository"
	domrisk "ComRisk/internal/domain/risk"
	domsvc "ComRisk/internal/domain/service"
	"ComRisk/internal/services/garch"
	"ComRisk/internal/services/pricing"
	risksvc "ComRisk/internal/services/risk"
	applogger "ComRisk/pkg/logger"
)

type fakePriceStore struct {
	points []models.PricePoint
	err    error
}

func (f *fakePriceStore) GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func (f *fakePriceStore) GetLatestNDailyCloses(ctx context.Context, symbol string, n int) ([]models.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.points) > n {
		return f.points[len(f.points)-n:], nil
	}
	return f.points, nil
}

// constantReturnPrices builds closes with a fixed per-day log return.
func constantReturnPrices(n int, start, ret float64) []models.PricePoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, n)
	for i := 0; i < n; i++ {
		out[i] = models.PricePoint{
			Symbol: "CL=F",
			Date:   base.AddDate(0, 0, i),
			Close:  start * math.Exp(ret*float64(i)),
		}
	}
	return out
}

func newTestAnalyzer(store domrepo.PriceStore) *RiskAnalyzer {
	mcNew := func(seed int64) domsvc.MonteCarloEstimator {
		return risksvc.NewMonteCarlo(seed)
	}
	return NewRiskAnalyzer(
		store,
		risksvc.NewHistorical(),
		mcNew,
		pricing.NewBlackScholes(),
		garch.NewEngine(garch.DefaultScale, applogger.Nop()),
		0.8,
		applogger.Nop(),
	)
}

func TestHistoricalVarConstantReturns(t *testing.T) {
	store := &fakePriceStore{points: constantReturnPrices(31, 100, 0.01)}
	a := newTestAnalyzer(store)

	res, err := a.HistoricalVar(context.Background(), &models.HistoricalVarRequest{
		Symbol: "CL=F", Lookback: 31, Window: 1, Confidence: 0.05,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != "historical" {
		t.Fatalf("method = %q", res.Method)
	}
	if res.Symbol != "CL=F" {
		t.Fatalf("symbol = %q", res.Symbol)
	}
	// every return is 0.01, so the whole distribution collapses to it
	if math.Abs(res.VaR-0.01) > 1e-12 || math.Abs(res.CVaR-0.01) > 1e-12 {
		t.Fatalf("VaR=%v CVaR=%v, want 0.01", res.VaR, res.CVaR)
	}
	wantLoss := 1 - math.Exp(0.01)
	if math.Abs(res.LossVaR-wantLoss) > 1e-12 {
		t.Fatalf("LossVaR=%v, want %v", res.LossVaR, wantLoss)
	}
}

func TestHistoricalVarTooFewCloses(t *testing.T) {
	store := &fakePriceStore{points: constantReturnPrices(1, 100, 0.01)}
	a := newTestAnalyzer(store)

	_, err := a.HistoricalVar(context.Background(), &models.HistoricalVarRequest{
		Symbol: "CL=F", Lookback: 365, Window: 1, Confidence: 0.05,
	})
	if !errors.Is(err, domrisk.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestHistoricalVarStoreError(t *testing.T) {
	storeErr := errors.New("clickhouse down")
	a := newTestAnalyzer(&fakePriceStore{err: storeErr})

	_, err := a.HistoricalVar(context.Background(), &models.HistoricalVarRequest{
		Symbol: "CL=F", Lookback: 365, Window: 1, Confidence: 0.05,
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestMonteCarloVarSeededDeterminism(t *testing.T) {
	store := &fakePriceStore{points: constantReturnPrices(200, 100, 0.002)}
	a := newTestAnalyzer(store)

	req := &models.MonteCarloVarRequest{
		Symbol: "CL=F", Lookback: 200, Periods: 5,
		Simulations: 5000, Confidence: 0.05, Seed: 42,
	}
	first, err := a.MonteCarloVar(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.MonteCarloVar(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.VaR != second.VaR || first.CVaR != second.CVaR {
		t.Fatalf("seeded runs differ: %v vs %v", first.VaR, second.VaR)
	}
	if first.Method != "montecarlo" {
		t.Fatalf("method = %q", first.Method)
	}
	// constant returns calibrate to sigma 0, so every path is pure drift
	if first.Sigma != 0 {
		t.Fatalf("sigma = %v, want 0", first.Sigma)
	}
	wantVar := 0.002 * 5
	if math.Abs(first.VaR-wantVar) > 1e-12 {
		t.Fatalf("VaR = %v, want %v", first.VaR, wantVar)
	}
}

// alternatingReturnPrices builds closes whose log returns flip sign each day
// so the realized volatility is strictly positive.
func alternatingReturnPrices(n int, start, ret float64) []models.PricePoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, n)
	price := start
	for i := 0; i < n; i++ {
		out[i] = models.PricePoint{Symbol: "CL=F", Date: base.AddDate(0, 0, i), Close: price}
		if i%2 == 0 {
			price *= math.Exp(ret)
		} else {
			price *= math.Exp(-ret / 2)
		}
	}
	return out
}

func TestPriceOptionUsesLatestClose(t *testing.T) {
	points := alternatingReturnPrices(100, 100, 0.02)
	store := &fakePriceStore{points: points}
	a := newTestAnalyzer(store)

	quote, err := a.PriceOption(context.Background(), &models.OptionPriceRequest{
		Symbol: "CL=F", Lookback: 100, Strike: 100, Rate: 0.01, ExpiryMonths: 6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantSpot := points[len(points)-1].Close
	if quote.Spot != wantSpot {
		t.Fatalf("spot = %v, want %v", quote.Spot, wantSpot)
	}
	if quote.Expiry != 0.5 {
		t.Fatalf("expiry = %v, want 0.5", quote.Expiry)
	}
	if quote.Sigma <= 0 {
		t.Fatalf("sigma = %v, want > 0", quote.Sigma)
	}
	// put-call parity at the quoted inputs
	parity := quote.Call - quote.Put
	want := quote.Spot - quote.Strike*math.Exp(-quote.Rate*quote.Expiry)
	if math.Abs(parity-want) > 1e-9 {
		t.Fatalf("parity violated: C-P=%v, want %v", parity, want)
	}
}
