package cellmap

import (
	"log/slog"

	"github.com/google/uuid"
)

type options struct {
	threads          int
	traversor        Traversor
	metricsCollector MetricsCollector
	logger           *Logger
	id               uuid.UUID
}

// Option configures Map construction.
type Option func(*options)

// WithThreads configures the number of per-thread marker rows.
//
// Each concurrent reader needs its own thread id in [0, threads). Thread 0
// belongs to the goroutine that owns the map; ids 1..threads-1 are handed out
// by AcquireThread and used by ParallelForEachCell.
//
// If threads < 1, a single row is used.
func WithThreads(threads int) Option {
	return func(o *options) {
		o.threads = threads
	}
}

// WithTraversor configures the incidence/adjacency traversal factory.
//
// If not set and the Topology passed to New also implements Traversor, the
// topology is used.
func WithTraversor(t Traversor) Option {
	return func(o *options) {
		o.traversor = t
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &cellmap.BasicMetricsCollector{}
//	m := cellmap.New(topo, cellmap.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Cells: %d created, %d released\n", stats.CellsCreated, stats.CellsReleased)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := cellmap.NewJSONLogger(slog.LevelDebug)
//	m := cellmap.New(topo, cellmap.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithID sets the map identity reported in logs and metrics.
// By default a random UUID is generated.
func WithID(id uuid.UUID) Option {
	return func(o *options) {
		o.id = id
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threads:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.threads < 1 {
		o.threads = 1
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	return o
}
