package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "assetbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	jobDuration   *prom.HistogramVec
	jobResults    *prom.CounterVec
	batchDuration *prom.HistogramVec
	batchOutcome  *prom.CounterVec
	workers       prom.Gauge
	watchEvents   *prom.CounterVec
	ruleMatches   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		jobDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of individual export jobs",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		jobResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "job_results_total",
			Help:      "Job results by kind and outcome",
		}, []string{"kind", "result"}),
		batchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of build batches",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"batch"}),
		batchOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "batch_outcomes_total",
			Help:      "Batch outcomes by final status",
		}, []string{"batch", "outcome"}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Worker count of the last batch",
		}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Filesystem events seen by the watcher",
		}, []string{"kind"}),
		ruleMatches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rule_matches_total",
			Help:      "Incremental rebuild rules fired",
		}, []string{"rule"}),
	}
	reg.MustRegister(pr.jobDuration, pr.jobResults, pr.batchDuration, pr.batchOutcome, pr.workers, pr.watchEvents, pr.ruleMatches)
	return pr
}

func (p *PrometheusRecorder) ObserveJobDuration(kind string, d time.Duration) {
	if p == nil {
		return
	}
	p.jobDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncJobResult(kind string, result ResultLabel) {
	if p == nil {
		return
	}
	p.jobResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBatchDuration(batch string, d time.Duration) {
	if p == nil {
		return
	}
	p.batchDuration.WithLabelValues(batch).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBatchOutcome(batch string, outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.batchOutcome.WithLabelValues(batch, string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil {
		return
	}
	p.workers.Set(float64(n))
}

func (p *PrometheusRecorder) IncWatchEvent(kind string) {
	if p == nil {
		return
	}
	p.watchEvents.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncRuleMatch(rule string) {
	if p == nil {
		return
	}
	p.ruleMatches.WithLabelValues(rule).Inc()
}
