package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	models "ComRisk/internal/domain/models"
	domrisk "ComRisk/internal/domain/risk"
	icache "ComRisk/internal/service/cache"
	"ComRisk/internal/service/metrics"
	"ComRisk/internal/service/ratelimit"
	"ComRisk/internal/usecase"
	pkgcache "ComRisk/pkg/cache"
	xhttp "ComRisk/pkg/http"
	xlogger "ComRisk/pkg/logger"
	"ComRisk/pkg/queue"
)

// RiskEchoHandler exposes the risk estimators over HTTP.
type RiskEchoHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.RiskAnalyzer
	prices   *usecase.PricesUseCase

	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter

	// async walk-forward; when jobs is nil requests run inline
	jobs      queue.QueueService
	jobStatus pkgcache.Service
	jobTTL    time.Duration
}

func NewRiskEchoHandler(logger *xlogger.Logger, analyzer *usecase.RiskAnalyzer, prices *usecase.PricesUseCase) *RiskEchoHandler {
	metrics.Register()
	return &RiskEchoHandler{
		logger:   logger,
		analyzer: analyzer,
		prices:   prices,
		cacheTTL: 30 * time.Second,
		jobTTL:   time.Hour,
		rl:       ratelimit.New(),
	}
}

// SetCache enables response caching for the estimator endpoints.
func (h *RiskEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

// SetJobStatus enables walk-forward job records (poll endpoint).
func (h *RiskEchoHandler) SetJobStatus(status pkgcache.Service, ttl time.Duration) {
	h.jobStatus = status
	if ttl > 0 {
		h.jobTTL = ttl
	}
}

// SetJobQueue enables async walk-forward runs.
func (h *RiskEchoHandler) SetJobQueue(q queue.QueueService) {
	h.jobs = q
}

func (h *RiskEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/risk/historical", h.Historical)
	g.GET("/risk/montecarlo", h.MonteCarlo)
	g.GET("/risk/option", h.Option)
	g.GET("/risk/garch", h.GarchFit)
	g.POST("/risk/walkforward", h.StartWalkForward)
	g.GET("/risk/walkforward/:job_id", h.WalkForwardStatus)
	g.GET("/prices", h.Prices)
	e.GET("/healthz", h.Health)
}

func (h *RiskEchoHandler) Historical(c echo.Context) error {
	const endpoint = "historical"
	start := time.Now()
	defer func() { metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.HistoricalVarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 10, 5) {
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}
	if b, ok := h.cached(endpoint + ":" + c.QueryString()); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.analyzer.HistoricalVar(c.Request().Context(), req)
	if err != nil {
		metrics.RiskErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("historical var error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return h.riskError(c, err)
	}
	h.store(endpoint+":"+c.QueryString(), res)
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) MonteCarlo(c echo.Context) error {
	const endpoint = "montecarlo"
	start := time.Now()
	defer func() { metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.MonteCarloVarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}
	// only deterministic (seeded) runs are cacheable
	cacheable := req.Seed != 0
	if cacheable {
		if b, ok := h.cached(endpoint + ":" + c.QueryString()); ok {
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
	}

	res, err := h.analyzer.MonteCarloVar(c.Request().Context(), req)
	if err != nil {
		metrics.RiskErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("monte carlo var error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return h.riskError(c, err)
	}
	if cacheable {
		h.store(endpoint+":"+c.QueryString(), res)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Option(c echo.Context) error {
	const endpoint = "option"
	start := time.Now()
	defer func() { metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.OptionPriceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 10, 5) {
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}
	if b, ok := h.cached(endpoint + ":" + c.QueryString()); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.analyzer.PriceOption(c.Request().Context(), req)
	if err != nil {
		metrics.RiskErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("option price error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return h.riskError(c, err)
	}
	h.store(endpoint+":"+c.QueryString(), res)
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) GarchFit(c echo.Context) error {
	const endpoint = "garch_fit"
	start := time.Now()
	defer func() { metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.GarchFitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// fits are expensive, keep the limiter tight
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 2, 0.5) {
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}
	if b, ok := h.cached(endpoint + ":" + c.QueryString()); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.analyzer.FitGarch(c.Request().Context(), req)
	if err != nil {
		metrics.RiskErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("garch fit error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return h.riskError(c, err)
	}
	h.store(endpoint+":"+c.QueryString(), res)
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) StartWalkForward(c echo.Context) error {
	const endpoint = "walkforward"
	start := time.Now()
	defer func() { metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.WalkForwardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 2, 0.2) {
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	jobID := uuid.NewString()

	// without a queue the run executes inline
	if h.jobs == nil {
		res, err := h.analyzer.WalkForward(c.Request().Context(), req)
		if err != nil {
			metrics.RiskErrors.WithLabelValues(endpoint).Inc()
			metrics.WalkForwardRuns.WithLabelValues("failed").Inc()
			h.logger.Error("walk-forward error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
			return h.riskError(c, err)
		}
		metrics.WalkForwardRuns.WithLabelValues("done").Inc()
		st := &models.WalkForwardJobStatus{JobID: jobID, Status: "done", Result: res}
		if h.jobStatus != nil {
			if err := h.jobStatus.Set(c.Request().Context(), usecase.WalkForwardStatusKey(jobID), st, h.jobTTL); err != nil {
				h.logger.Warn("walk-forward status write error", xlogger.Error(err))
			}
		}
		return xhttp.SuccessResponse(c, st)
	}

	st := &models.WalkForwardJobStatus{JobID: jobID, Status: "queued"}
	if err := h.jobStatus.Set(c.Request().Context(), usecase.WalkForwardStatusKey(jobID), st, h.jobTTL); err != nil {
		h.logger.Error("walk-forward status write error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not register job"))
	}
	payload := usecase.WalkForwardJobPayload{JobID: jobID, Request: *req}
	if err := h.jobs.PublishMessage(c.Request().Context(), usecase.WalkForwardJobType, payload); err != nil {
		metrics.RiskErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("walk-forward enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not enqueue job"))
	}
	metrics.WalkForwardRuns.WithLabelValues("queued").Inc()
	return xhttp.AcceptedResponse(c, st)
}

func (h *RiskEchoHandler) WalkForwardStatus(c echo.Context) error {
	jobID := c.Param("job_id")
	if jobID == "" {
		return xhttp.BadRequestResponse(c, "job_id required")
	}
	if h.jobStatus == nil {
		return xhttp.NotFoundResponse(c, "async walk-forward disabled")
	}

	var st models.WalkForwardJobStatus
	err := h.jobStatus.Get(c.Request().Context(), usecase.WalkForwardStatusKey(jobID), &st)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return xhttp.NotFoundResponse(c, "unknown job")
		}
		h.logger.Error("walk-forward status read error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, &st)
}

func (h *RiskEchoHandler) Prices(c echo.Context) error {
	const endpoint = "prices"
	start := time.Now()
	defer func() { metrics.RiskLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.DailyClosesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from := xhttp.ParseTimeDefault(req.From, time.Now().AddDate(-1, 0, 0))
	to := xhttp.ParseTimeDefault(req.To, time.Now())
	if from.After(to) {
		return xhttp.BadRequestResponse(c, "from must be <= to")
	}

	res, err := h.prices.GetDailyCloses(c.Request().Context(), usecase.GetClosesParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Limit:  req.Limit,
	})
	if err != nil {
		metrics.RiskErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("prices error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// riskError maps estimator errors to HTTP statuses: bad parameters are the
// caller's fault, data problems are unprocessable, everything else is 500.
func (h *RiskEchoHandler) riskError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domrisk.ErrInvalidParameter):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, domrisk.ErrInsufficientData),
		errors.Is(err, domrisk.ErrInvalidData),
		errors.Is(err, domrisk.ErrDegenerateSample),
		errors.Is(err, domrisk.ErrFitConvergence):
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(err.Error()))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}

func (h *RiskEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *RiskEchoHandler) store(key string, v interface{}) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, h.cacheTTL); err != nil {
		h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
	}
}
