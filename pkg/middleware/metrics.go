package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wayfind-dev/wayfind"
	"github.com/wayfind-dev/wayfind/pkg/routepath"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "wayfind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "wayfind",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for wayfind.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	redirectHops       prometheus.Counter
	gateDecisions      *prometheus.CounterVec
	rebuildsTotal      prometheus.Counter
	bridgeClients      prometheus.Gauge
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations resolved",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of failed navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		redirectHops: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redirect_hops_total",
			Help:        "Total number of redirect hops followed",
			ConstLabels: config.ConstLabels,
		}),

		gateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "gate_decisions_total",
			Help:        "Auth gate outcomes by decision",
			ConstLabels: config.ConstLabels,
		}, []string{"decision"}),

		rebuildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rebuilds_total",
			Help:        "Total number of route table rebuilds",
			ConstLabels: config.ConstLabels,
		}),

		bridgeClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bridge_clients",
			Help:        "Number of connected history bridge clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// InitMetrics registers the metric families without installing the
// middleware. Processes that expose /metrics but run no router, such as
// a shell server recording bridge connections, call this instead of
// Prometheus. Safe to call more than once; the first configuration wins.
func InitMetrics(opts ...MetricsOption) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	globalMetricsMu.Unlock()
}

// Prometheus creates middleware that collects Prometheus metrics for
// every navigation.
//
// Metrics collected:
//   - wayfind_navigations_total: Counter of navigations by route and status
//   - wayfind_navigation_duration_seconds: Histogram of resolution duration
//   - wayfind_navigation_errors_total: Counter of failures by route and error type
//   - wayfind_redirect_hops_total: Counter of redirect hops followed
//   - wayfind_gate_decisions_total: Counter of gate outcomes (passed, loading, redirect)
//   - wayfind_rebuilds_total: Counter of route table rebuilds (via RecordRebuild)
//   - wayfind_bridge_clients: Gauge of history bridge clients (via RecordBridgeConnect)
//
// Example:
//
//	r, _ := wayfind.New(cfg, routes...)
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("myapp"),
//	))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) wayfind.Middleware {
	InitMetrics(opts...)

	globalMetricsMu.Lock()
	m := globalMetrics
	globalMetricsMu.Unlock()

	return wayfind.MiddlewareFunc(func(ctx *wayfind.NavContext, next func() error) error {
		start := time.Now()

		err := next()

		route := ctx.RouteLabel()
		duration := time.Since(start).Seconds()
		m.navigationDuration.WithLabelValues(route).Observe(duration)

		if err != nil {
			m.navigationErrors.WithLabelValues(route, categorizeError(err)).Inc()
		}
		m.navigationsTotal.WithLabelValues(route, ctx.Status().String()).Inc()

		if hops := ctx.Redirects(); hops > 0 {
			m.redirectHops.Add(float64(hops))
		}

		switch ctx.Status() {
		case wayfind.StatusAuthLoading:
			m.gateDecisions.WithLabelValues("loading").Inc()
		case wayfind.StatusAuthRedirect:
			m.gateDecisions.WithLabelValues("redirect").Inc()
		case wayfind.StatusMatched:
			if mt := ctx.Match(); mt != nil && mt.Gate() != nil {
				m.gateDecisions.WithLabelValues("passed").Inc()
			}
		}

		return err
	})
}

// categorizeError maps a navigation error onto a bounded label set, so
// error messages never leak into label cardinality.
func categorizeError(err error) string {
	var unresolved *routetree.UnresolvedParamError
	var missing *routetree.MissingParamError
	switch {
	case errors.Is(err, wayfind.ErrRedirectLoop):
		return "redirect_loop"
	case errors.As(err, &unresolved):
		return "unresolved_param"
	case errors.As(err, &missing):
		return "missing_param"
	case errors.Is(err, routetree.ErrStaleRegistry):
		return "stale_registry"
	case errors.Is(err, routepath.ErrBackslash),
		errors.Is(err, routepath.ErrNullByte),
		errors.Is(err, routepath.ErrInvalidPercentEscape),
		errors.Is(err, routepath.ErrPathEscapesRoot),
		errors.Is(err, routepath.ErrEncodedSlash),
		errors.Is(err, routepath.ErrInvalidPath):
		return "invalid_path"
	default:
		return "internal"
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordRebuild records a route table rebuild. Call it next to
// Router.Rebuild when the metrics middleware is installed.
func RecordRebuild() {
	if globalMetrics != nil {
		globalMetrics.rebuildsTotal.Inc()
	}
}

// RecordBridgeConnect records a history bridge client connecting.
func RecordBridgeConnect() {
	if globalMetrics != nil {
		globalMetrics.bridgeClients.Inc()
	}
}

// RecordBridgeDisconnect records a history bridge client disconnecting.
func RecordBridgeDisconnect() {
	if globalMetrics != nil {
		globalMetrics.bridgeClients.Dec()
	}
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the metrics for use in custom registrations and
// tests.
type Collector struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	redirectHops       prometheus.Counter
	gateDecisions      *prometheus.CounterVec
	rebuildsTotal      prometheus.Counter
	bridgeClients      prometheus.Gauge
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		navigationsTotal:   globalMetrics.navigationsTotal,
		navigationDuration: globalMetrics.navigationDuration,
		navigationErrors:   globalMetrics.navigationErrors,
		redirectHops:       globalMetrics.redirectHops,
		gateDecisions:      globalMetrics.gateDecisions,
		rebuildsTotal:      globalMetrics.rebuildsTotal,
		bridgeClients:      globalMetrics.bridgeClients,
	}
}
