package llm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"intellic/internal/metrics"
)

// WithMetrics counts calls and failures and observes latency per phase.
// A nil registerer disables the middleware.
func WithMetrics(reg prometheus.Registerer) Middleware {
	return func(next LLMClient) LLMClient {
		if reg == nil {
			return next
		}
		calls := metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Oracle calls by phase and outcome.",
		}, []string{"phase", "outcome"}))
		latency := metrics.Register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "oracle",
			Name:      "call_duration_seconds",
			Help:      "Oracle call latency by phase.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"phase"}))
		return &metered{next: next, calls: calls, latency: latency}
	}
}

type metered struct {
	next    LLMClient
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func (m *metered) Name() string { return m.next.Name() }
func (m *metered) Close() error { return m.next.Close() }
func (m *metered) Predict(ctx context.Context, prompt string) (string, error) {
	phase := PhaseFrom(ctx)
	start := time.Now()
	resp, err := m.next.Predict(ctx, prompt)
	m.latency.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(phase, outcome).Inc()
	return resp, err
}
