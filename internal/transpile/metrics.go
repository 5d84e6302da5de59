package transpile

import (
	"github.com/prometheus/client_golang/prometheus"

	"intellic/internal/metrics"
)

const (
	outcomeConverted = "converted"
	outcomeFailed    = "failed"
	outcomeIgnored   = "ignored"
)

type runMetrics struct {
	files   *prometheus.CounterVec
	skipped prometheus.Counter
}

func newRunMetrics(reg prometheus.Registerer) *runMetrics {
	files := metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "transpile",
		Name:      "files_total",
		Help:      "Files seen by the directory transpiler, by outcome.",
	}, []string{"outcome"}))
	skipped := metrics.Register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "transpile",
		Name:      "skipped_dirs_total",
		Help:      "Directories not descended because of the skip list.",
	}))
	return &runMetrics{files: files, skipped: skipped}
}

func (m *runMetrics) file(outcome string) { m.files.WithLabelValues(outcome).Inc() }
