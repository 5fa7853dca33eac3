// Package middleware provides production-grade middleware for wayfind
// routers.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry tracing middleware
//
// # Prometheus Metrics
//
// The Prometheus middleware observes every navigation the router
// resolves:
//   - wayfind_navigations_total: Counter of navigations by route and status
//   - wayfind_navigation_duration_seconds: Resolution duration histogram
//   - wayfind_navigation_errors_total: Counter of failures by route and error type
//   - wayfind_redirect_hops_total: Counter of redirect hops followed
//   - wayfind_gate_decisions_total: Counter of auth gate outcomes
//
// Route labels use the route pattern, never the concrete path, so
// cardinality stays bounded by the route table.
//
//	r, _ := wayfind.New(cfg, routes...)
//	r.Use(middleware.Prometheus())
//
// Then expose the metrics endpoint:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// The OpenTelemetry middleware opens a span per navigation, named after
// the settled route, carrying the status, redirect hop count, and
// not-found flag:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	))
//
// The tracer comes from the global tracer provider; configure it in
// main() before starting the router:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	    sdktrace.WithResource(resource.NewWithAttributes(
//	        semconv.SchemaURL,
//	        semconv.ServiceName("my-app"),
//	    )),
//	)
//	otel.SetTracerProvider(tp)
//
// Middleware later in the chain can attach to the navigation's span via
// SpanFromContext and propagate it outward via TraceContext.
package middleware
