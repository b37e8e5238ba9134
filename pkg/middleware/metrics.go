package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/server"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "livedom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for update duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "livedom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects Prometheus metrics for update passes, patch batches,
// sessions and keyed lists.
//
// Metrics collected:
//   - livedom_updates_total: Counter of update passes by status
//   - livedom_update_duration_seconds: Histogram of update pass duration
//   - livedom_patches_sent_total: Counter of patches written to clients
//   - livedom_batches_sent_total: Counter of patch batches
//   - livedom_active_sessions: Gauge of live sessions
//   - livedom_list_passes_total: Counter of list passes by dirty
//   - livedom_list_moves_total: Counter of entry moves
//   - livedom_list_created_total: Counter of entries built by factories
//   - livedom_list_evicted_total: Counter of entries disposed
//   - livedom_duplicate_keys_total: Counter of passes failed on a duplicate key
type Metrics struct {
	updatesTotal   *prometheus.CounterVec
	updateDuration prometheus.Histogram
	patchesSent    prometheus.Counter
	batchesSent    prometheus.Counter
	activeSessions prometheus.Gauge
	listPasses     *prometheus.CounterVec
	listMoves      prometheus.Counter
	listCreated    prometheus.Counter
	listEvicted    prometheus.Counter
	duplicateKeys  prometheus.Counter
}

// Prometheus registers the metrics with the configured registry.
// Registering twice with the same registry panics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//	srv := server.New(app, &server.ServerConfig{
//	    Middleware:      []server.UpdateMiddleware{m.Middleware()},
//	    ListObserver:    m,
//	    Hooks:           m.Hooks(server.Hooks{}),
//	    MetricsGatherer: reg,
//	})
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of update passes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		updateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_duration_seconds",
			Help:        "Update pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		patchesSent: counter("patches_sent_total", "Total number of patches sent to clients"),
		batchesSent: counter("batches_sent_total", "Total number of patch batches sent to clients"),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of live sessions",
			ConstLabels: config.ConstLabels,
		}),

		listPasses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "list_passes_total",
			Help:        "Total number of keyed list update passes",
			ConstLabels: config.ConstLabels,
		}, []string{"dirty"}),

		listMoves:     counter("list_moves_total", "Total number of list entries repositioned"),
		listCreated:   counter("list_created_total", "Total number of list entries built"),
		listEvicted:   counter("list_evicted_total", "Total number of list entries disposed"),
		duplicateKeys: counter("duplicate_keys_total", "Total number of list passes rejected for a duplicate key"),
	}
}

// Middleware returns an update middleware timing every pass.
func (m *Metrics) Middleware() server.UpdateMiddleware {
	return func(ctx context.Context, s *server.Session, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)
		m.updateDuration.Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
		}
		m.updatesTotal.WithLabelValues(status).Inc()
		return err
	}
}

// Hooks returns next with session and batch counting added.
func (m *Metrics) Hooks(next server.Hooks) server.Hooks {
	start, end, batch := next.OnSessionStart, next.OnSessionEnd, next.OnBatch
	return server.Hooks{
		OnSessionStart: func(s *server.Session) {
			m.activeSessions.Inc()
			if start != nil {
				start(s)
			}
		},
		OnSessionEnd: func(s *server.Session) {
			m.activeSessions.Dec()
			if end != nil {
				end(s)
			}
		},
		OnBatch: func(s *server.Session, patches, frames int) {
			m.patchesSent.Add(float64(patches))
			m.batchesSent.Inc()
			if batch != nil {
				batch(s, patches, frames)
			}
		},
	}
}

// ObservePass implements el.ListObserver.
func (m *Metrics) ObservePass(ps el.PassStats) {
	dirty := "false"
	if ps.Dirty {
		dirty = "true"
	}
	m.listPasses.WithLabelValues(dirty).Inc()
	m.listMoves.Add(float64(ps.Moved))
	m.listCreated.Add(float64(ps.Created))
	m.listEvicted.Add(float64(ps.Evicted))
	if errors.Is(ps.Err, el.ErrDuplicateKey) {
		m.duplicateKeys.Inc()
	}
}

var _ el.ListObserver = (*Metrics)(nil)
