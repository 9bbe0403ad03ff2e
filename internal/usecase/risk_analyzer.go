package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"ComRisk/internal/domain/models"
	domrepo "ComRisk/internal/domain/repository"
	domsvc "ComRisk/internal/domain/service"
	"ComRisk/internal/services/garch"
	"ComRisk/internal/services/returns"
	applogger "ComRisk/pkg/logger"
)

// TradingDaysPerYear converts daily volatility to annualized for pricing.
const TradingDaysPerYear = 252

// MonteCarloFactory builds a seeded estimator per request so concurrent
// requests with explicit seeds stay reproducible.
type MonteCarloFactory func(seed int64) domsvc.MonteCarloEstimator

// RiskAnalyzer wires the price store to the risk estimators: historical and
// Monte Carlo VaR/CVaR, option pricing off realized volatility, and the
// GARCH fit / walk-forward runs.
type RiskAnalyzer struct {
	store         domrepo.PriceStore
	hist          domsvc.HistoricalEstimator
	mcNew         MonteCarloFactory
	pricer        domsvc.OptionPricer
	vol           domsvc.VolatilityModel
	trainFraction float64
	l             *applogger.Logger
}

func NewRiskAnalyzer(
	store domrepo.PriceStore,
	hist domsvc.HistoricalEstimator,
	mcNew MonteCarloFactory,
	pricer domsvc.OptionPricer,
	vol domsvc.VolatilityModel,
	trainFraction float64,
	l *applogger.Logger,
) *RiskAnalyzer {
	if trainFraction <= 0 || trainFraction >= 1 {
		trainFraction = 0.8
	}
	return &RiskAnalyzer{
		store:         store,
		hist:          hist,
		mcNew:         mcNew,
		pricer:        pricer,
		vol:           vol,
		trainFraction: trainFraction,
		l:             l,
	}
}

// logReturns pulls the lookback of daily closes and converts to log returns.
func (a *RiskAnalyzer) logReturns(ctx context.Context, symbol string, lookback int) ([]models.LogReturn, []models.PricePoint, error) {
	n := domrepo.ClampLookback(lookback)
	points, err := a.store.GetLatestNDailyCloses(ctx, symbol, n)
	if err != nil {
		return nil, nil, fmt.Errorf("load closes for %s: %w", symbol, err)
	}
	rets, err := returns.FromPrices(points)
	if err != nil {
		return nil, nil, fmt.Errorf("log returns for %s: %w", symbol, err)
	}
	return rets, points, nil
}

// HistoricalVar estimates VaR/CVaR from the realized return distribution.
func (a *RiskAnalyzer) HistoricalVar(ctx context.Context, req *models.HistoricalVarRequest) (*models.RiskEstimate, error) {
	rets, _, err := a.logReturns(ctx, req.Symbol, req.Lookback)
	if err != nil {
		return nil, err
	}

	varLog, cvarLog, err := a.hist.Estimate(returns.Values(rets), req.Window, req.Confidence)
	if err != nil {
		return nil, fmt.Errorf("historical var: %w", err)
	}

	return &models.RiskEstimate{
		Symbol:     req.Symbol,
		Timestamp:  time.Now(),
		Method:     "historical",
		Confidence: req.Confidence,
		Window:     req.Window,
		VaR:        varLog,
		CVaR:       cvarLog,
		LossVaR:    1 - math.Exp(varLog),
		LossCVaR:   1 - math.Exp(cvarLog),
	}, nil
}

// MonteCarloVar calibrates drift and volatility on realized returns and
// estimates VaR/CVaR by simulation.
func (a *RiskAnalyzer) MonteCarloVar(ctx context.Context, req *models.MonteCarloVarRequest) (*models.MonteCarloEstimate, error) {
	rets, _, err := a.logReturns(ctx, req.Symbol, req.Lookback)
	if err != nil {
		return nil, err
	}

	mu, sigma := returns.MeanStd(returns.Values(rets))
	mc := a.mcNew(req.Seed)
	varLog, cvarLog, err := mc.Estimate(mu, sigma, req.Periods, req.Simulations, req.Confidence)
	if err != nil {
		return nil, fmt.Errorf("monte carlo var: %w", err)
	}

	return &models.MonteCarloEstimate{
		RiskEstimate: models.RiskEstimate{
			Symbol:     req.Symbol,
			Timestamp:  time.Now(),
			Method:     "montecarlo",
			Confidence: req.Confidence,
			Window:     req.Periods,
			VaR:        varLog,
			CVaR:       cvarLog,
			LossVaR:    1 - math.Exp(varLog),
			LossCVaR:   1 - math.Exp(cvarLog),
		},
		Simulations: req.Simulations,
		Mu:          mu,
		Sigma:       sigma,
		Seed:        req.Seed,
	}, nil
}

// PriceOption prices a call/put pair at the latest close with realized
// annualized volatility as the sigma input.
func (a *RiskAnalyzer) PriceOption(ctx context.Context, req *models.OptionPriceRequest) (*models.OptionQuote, error) {
	rets, points, err := a.logReturns(ctx, req.Symbol, req.Lookback)
	if err != nil {
		return nil, err
	}

	_, dailyVol := returns.MeanStd(returns.Values(rets))
	sigma := returns.AnnualizedVol(dailyVol, TradingDaysPerYear)
	spot := points[len(points)-1].Close
	expiry := float64(req.ExpiryMonths) / 12.0

	call, err := a.pricer.Call(spot, req.Strike, sigma, req.Rate, expiry)
	if err != nil {
		return nil, fmt.Errorf("price call: %w", err)
	}
	put, err := a.pricer.Put(spot, req.Strike, sigma, req.Rate, expiry)
	if err != nil {
		return nil, fmt.Errorf("price put: %w", err)
	}

	return &models.OptionQuote{
		Symbol:    req.Symbol,
		Timestamp: time.Now(),
		Spot:      spot,
		Strike:    req.Strike,
		Rate:      req.Rate,
		Expiry:    expiry,
		Sigma:     sigma,
		Call:      call,
		Put:       put,
	}, nil
}

// FitGarch fits GARCH(p,q) on the rolling-sum return sample.
func (a *RiskAnalyzer) FitGarch(ctx context.Context, req *models.GarchFitRequest) (*models.GarchFit, error) {
	rets, _, err := a.logReturns(ctx, req.Symbol, req.Lookback)
	if err != nil {
		return nil, err
	}

	sample := returns.RollingSum(returns.Values(rets), req.Window)
	fit, err := a.vol.Fit(ctx, sample, req.P, req.Q)
	if err != nil {
		return nil, fmt.Errorf("garch fit %s: %w", req.Symbol, err)
	}
	fit.Symbol = req.Symbol
	return fit, nil
}

// WalkForward runs the expanding-window refit loop over the held-out tail
// of the rolling-sum sample and attaches observation dates to the forecasts.
func (a *RiskAnalyzer) WalkForward(ctx context.Context, req *models.WalkForwardRequest) (*models.WalkForwardResult, error) {
	rets, _, err := a.logReturns(ctx, req.Symbol, req.Lookback)
	if err != nil {
		return nil, err
	}

	values := returns.Values(rets)
	sample := returns.RollingSum(values, req.Window)
	// Each rolling sum is stamped with the date of the newest return it covers.
	dates := make([]time.Time, len(sample))
	for i := range sample {
		dates[i] = rets[i+req.Window-1].Date
	}

	train, test := garch.SplitSample(sample, a.trainFraction)
	start := time.Now()
	res, err := a.vol.WalkForward(ctx, train, test, req.P, req.Q, req.Confidence)
	if err != nil {
		return nil, fmt.Errorf("walk-forward %s: %w", req.Symbol, err)
	}
	res.Symbol = req.Symbol
	if res.FinalFit != nil {
		res.FinalFit.Symbol = req.Symbol
	}
	for i := range res.Forecasts {
		res.Forecasts[i].Date = dates[len(train)+i]
	}

	if a.l != nil {
		a.l.Info("walk-forward run finished",
			applogger.String("symbol", req.Symbol),
			applogger.Int("train", res.TrainSize),
			applogger.Int("test", res.TestSize),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return res, nil
}
