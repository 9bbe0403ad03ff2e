package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	RiskLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "comrisk",
			Subsystem: "risk",
			Name:      "latency_seconds",
			Help:      "Latency of risk endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RiskErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comrisk",
			Subsystem: "risk",
			Name:      "errors_total",
			Help:      "Errors by risk endpoint",
		},
		[]string{"endpoint"},
	)

	WalkForwardRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "comrisk",
			Subsystem: "risk",
			Name:      "walkforward_runs_total",
			Help:      "Walk-forward runs by outcome",
		},
		[]string{"outcome"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(RiskLatency, RiskErrors, WalkForwardRuns)
	})
}
