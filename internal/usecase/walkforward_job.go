package usecase

import (
	"context"
	"time"

	"ComRisk/internal/domain/models"
	"ComRisk/internal/service/metrics"
	pkgcache "ComRisk/pkg/cache"
	applogger "ComRisk/pkg/logger"
	"ComRisk/pkg/queue"
)

// WalkForwardJobType is the queue message type for async walk-forward runs.
const WalkForwardJobType = "walk_forward"

// WalkForwardJobPayload is the queued request plus its assigned job ID.
type WalkForwardJobPayload struct {
	JobID   string                    `json:"job_id"`
	Request models.WalkForwardRequest `json:"request"`
}

// WalkForwardJob runs queued walk-forward requests in the background.
// Status and result live in the cache under the job ID so the API can
// poll them without holding a connection open for the whole refit loop.
type WalkForwardJob struct {
	analyzer *RiskAnalyzer
	status   pkgcache.Service
	ttl      time.Duration
	l        *applogger.Logger
}

func NewWalkForwardJob(analyzer *RiskAnalyzer, status pkgcache.Service, ttl time.Duration, l *applogger.Logger) *WalkForwardJob {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &WalkForwardJob{analyzer: analyzer, status: status, ttl: ttl, l: l}
}

func (j *WalkForwardJob) Name() string { return "walk_forward_runner" }
func (j *WalkForwardJob) Type() string { return WalkForwardJobType }

// WalkForwardStatusKey is the cache key of a job's status record.
func WalkForwardStatusKey(jobID string) string {
	return "walkforward:job:" + jobID
}

func (j *WalkForwardJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[WalkForwardJobPayload](payload)
	if err != nil {
		return err
	}

	j.setStatus(ctx, &models.WalkForwardJobStatus{JobID: p.JobID, Status: "running"})

	res, err := j.analyzer.WalkForward(ctx, &p.Request)
	if err != nil {
		if j.l != nil {
			j.l.Error("walk-forward job failed",
				applogger.String("job_id", p.JobID),
				applogger.String("symbol", p.Request.Symbol),
				applogger.Error(err),
			)
		}
		j.setStatus(ctx, &models.WalkForwardJobStatus{JobID: p.JobID, Status: "failed", Error: err.Error()})
		metrics.WalkForwardRuns.WithLabelValues("failed").Inc()
		return err
	}

	j.setStatus(ctx, &models.WalkForwardJobStatus{JobID: p.JobID, Status: "done", Result: res})
	metrics.WalkForwardRuns.WithLabelValues("done").Inc()
	return nil
}

func (j *WalkForwardJob) setStatus(ctx context.Context, s *models.WalkForwardJobStatus) {
	if err := j.status.Set(ctx, WalkForwardStatusKey(s.JobID), s, j.ttl); err != nil && j.l != nil {
		j.l.Warn("walk-forward status write failed",
			applogger.String("job_id", s.JobID),
			applogger.Error(err),
		)
	}
}
