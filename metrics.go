package cellmap

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/cellmap/model"
)

// Cache kinds reported to MetricsCollector.RecordCacheRebuild.
const (
	CacheRepresentative = "representative"
	CacheIncident       = "incident"
	CacheAdjacent       = "adjacent"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems;
// PrometheusCollector is the bundled Prometheus integration.
type MetricsCollector interface {
	// RecordCellCreated is called when a record is allocated for a cell.
	RecordCellCreated(orbit model.Orbit)

	// RecordCellReleased is called when the last dart of a record lets go
	// of it and its line is freed.
	RecordCellReleased(orbit model.Orbit)

	// RecordCacheRebuild is called after each quick traversal rebuild.
	// kind is one of CacheRepresentative, CacheIncident, CacheAdjacent.
	RecordCacheRebuild(kind string, orbit model.Orbit, cells int, duration time.Duration)

	// RecordCheck is called after each consistency check.
	RecordCheck(violations int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCellCreated(model.Orbit)                                 {}
func (NoopMetricsCollector) RecordCellReleased(model.Orbit)                                {}
func (NoopMetricsCollector) RecordCacheRebuild(string, model.Orbit, int, time.Duration) {}
func (NoopMetricsCollector) RecordCheck(int, time.Duration)                                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CellsCreated       atomic.Int64
	CellsReleased      atomic.Int64
	CacheRebuilds      atomic.Int64
	CacheCells         atomic.Int64
	CacheRebuildNanos  atomic.Int64
	Checks             atomic.Int64
	CheckViolations    atomic.Int64
	perOrbitLiveRecord [model.NumOrbits]atomic.Int64
}

// RecordCellCreated implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCellCreated(orbit model.Orbit) {
	b.CellsCreated.Add(1)
	b.perOrbitLiveRecord[orbit].Add(1)
}

// RecordCellReleased implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCellReleased(orbit model.Orbit) {
	b.CellsReleased.Add(1)
	b.perOrbitLiveRecord[orbit].Add(-1)
}

// RecordCacheRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheRebuild(_ string, _ model.Orbit, cells int, duration time.Duration) {
	b.CacheRebuilds.Add(1)
	b.CacheCells.Add(int64(cells))
	b.CacheRebuildNanos.Add(duration.Nanoseconds())
}

// RecordCheck implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheck(violations int, _ time.Duration) {
	b.Checks.Add(1)
	b.CheckViolations.Add(int64(violations))
}

// LiveRecords returns created minus released records for orbit.
func (b *BasicMetricsCollector) LiveRecords(orbit model.Orbit) int64 {
	return b.perOrbitLiveRecord[orbit].Load()
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CellsCreated:        b.CellsCreated.Load(),
		CellsReleased:       b.CellsReleased.Load(),
		CacheRebuilds:       b.CacheRebuilds.Load(),
		CacheCells:          b.CacheCells.Load(),
		CacheRebuildAvgNano: b.getAvgRebuildNanos(),
		Checks:              b.Checks.Load(),
		CheckViolations:     b.CheckViolations.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRebuildNanos() int64 {
	count := b.CacheRebuilds.Load()
	if count == 0 {
		return 0
	}
	return b.CacheRebuildNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CellsCreated        int64 `yaml:"cells_created"`
	CellsReleased       int64 `yaml:"cells_released"`
	CacheRebuilds       int64 `yaml:"cache_rebuilds"`
	CacheCells          int64 `yaml:"cache_cells"`
	CacheRebuildAvgNano int64 `yaml:"cache_rebuild_avg_ns"`
	Checks              int64 `yaml:"checks"`
	CheckViolations     int64 `yaml:"check_violations"`
}
