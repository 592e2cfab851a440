package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/mirador-jobdoctor/internal/models"
)

const (
	// OutcomeSuccess labels reloads that swapped in a new heuristic.
	OutcomeSuccess = "success"
	// OutcomeError labels reloads that kept the previous heuristic.
	OutcomeError = "error"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobdoctor",
			Name:      "evaluations_total",
			Help:      "Total number of heuristic evaluations, partitioned by heuristic and resulting severity.",
		},
		[]string{"heuristic", "severity"},
	)

	evaluationTasks = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobdoctor",
			Name:      "evaluation_tasks",
			Help:      "Number of reducer tasks per evaluated job.",
			Buckets:   []float64{0, 10, 20, 50, 100, 200, 500, 1000, 5000},
		},
	)

	evaluationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobdoctor",
			Name:      "evaluation_seconds",
			Help:      "Evaluation latency in seconds, including request decoding.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	heuristicReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobdoctor",
			Name:      "heuristic_reloads_total",
			Help:      "Heuristic pack reloads, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register attaches jobdoctor collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		evaluationsTotal,
		evaluationTasks,
		evaluationDurationSeconds,
		heuristicReloadsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveEvaluation records one heuristic verdict.
func ObserveEvaluation(heuristic string, severity models.Severity, tasks int, duration time.Duration) {
	evaluationsTotal.WithLabelValues(heuristic, severity.String()).Inc()
	evaluationTasks.Observe(float64(tasks))
	if duration < 0 {
		duration = 0
	}
	evaluationDurationSeconds.Observe(duration.Seconds())
}

// ObserveReload records a heuristic pack reload outcome.
func ObserveReload(outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	heuristicReloadsTotal.WithLabelValues(label).Inc()
}
