package cellmap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/cellmap/model"
)

// PrometheusCollector exports MetricsCollector events as Prometheus metrics.
type PrometheusCollector struct {
	cellsCreated    *prometheus.CounterVec
	cellsReleased   *prometheus.CounterVec
	cacheRebuilds   *prometheus.CounterVec
	cacheDuration   *prometheus.HistogramVec
	checks          prometheus.Counter
	checkViolations prometheus.Counter
}

// NewPrometheusCollector creates a collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		cellsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_created_total",
			Help:      "Records allocated for cells, by orbit.",
		}, []string{"orbit"}),
		cellsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_released_total",
			Help:      "Records freed after their last dart let go, by orbit.",
		}, []string{"orbit"}),
		cacheRebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quick_traversal_rebuilds_total",
			Help:      "Quick traversal cache rebuilds, by kind and orbit.",
		}, []string{"kind", "orbit"}),
		cacheDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quick_traversal_rebuild_seconds",
			Help:      "Quick traversal cache rebuild latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"kind"}),
		checks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Consistency checks run.",
		}),
		checkViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_violations_total",
			Help:      "Consistency violations reported.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.cellsCreated, p.cellsReleased, p.cacheRebuilds, p.cacheDuration, p.checks, p.checkViolations,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RecordCellCreated implements MetricsCollector.
func (p *PrometheusCollector) RecordCellCreated(orbit model.Orbit) {
	p.cellsCreated.WithLabelValues(orbit.String()).Inc()
}

// RecordCellReleased implements MetricsCollector.
func (p *PrometheusCollector) RecordCellReleased(orbit model.Orbit) {
	p.cellsReleased.WithLabelValues(orbit.String()).Inc()
}

// RecordCacheRebuild implements MetricsCollector.
func (p *PrometheusCollector) RecordCacheRebuild(kind string, orbit model.Orbit, _ int, duration time.Duration) {
	p.cacheRebuilds.WithLabelValues(kind, orbit.String()).Inc()
	p.cacheDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCheck implements MetricsCollector.
func (p *PrometheusCollector) RecordCheck(violations int, _ time.Duration) {
	p.checks.Inc()
	p.checkViolations.Add(float64(violations))
}

// CellsCreated returns the created-records counter of orbit.
func (p *PrometheusCollector) CellsCreated(orbit model.Orbit) (prometheus.Counter, error) {
	return p.cellsCreated.GetMetricWithLabelValues(orbit.String())
}

// CellsReleased returns the released-records counter of orbit.
func (p *PrometheusCollector) CellsReleased(orbit model.Orbit) (prometheus.Counter, error) {
	return p.cellsReleased.GetMetricWithLabelValues(orbit.String())
}
