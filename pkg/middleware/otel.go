package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wayfind-dev/wayfind"
)

// Default tracer name for wayfind routers.
const defaultTracerName = "wayfind"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "wayfind").
	TracerName string

	// IncludeLocation includes the concrete location in span attributes.
	// Locations can carry user identifiers; enabled by default, disable
	// when paths are sensitive.
	IncludeLocation bool

	// Filter determines which navigations to trace.
	// Return true to trace the navigation, false to skip.
	// If nil, all navigations are traced.
	Filter func(ctx *wayfind.NavContext) bool

	// AttributeExtractor extracts custom attributes from the context.
	// Called for each traced navigation.
	AttributeExtractor func(ctx *wayfind.NavContext) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeLocation enables/disables the concrete location attribute.
func WithIncludeLocation(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeLocation = include
	}
}

// WithNavFilter sets a filter function for navigations.
func WithNavFilter(filter func(ctx *wayfind.NavContext) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *wayfind.NavContext) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:      defaultTracerName,
		IncludeLocation: true,
		Filter:          nil,
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The middleware:
//   - Opens a span per navigation, renamed to the settled route pattern
//   - Records the status, redirect hop count, and not-found flag
//   - Records errors and sets span status
//   - Stores the span context on the NavContext for later middleware
//
// Example:
//
//	r, _ := wayfind.New(cfg, routes...)
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before starting the router:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	    sdktrace.WithResource(resource.NewWithAttributes(
//	        semconv.SchemaURL,
//	        semconv.ServiceName("my-app"),
//	    )),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) wayfind.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return wayfind.MiddlewareFunc(func(ctx *wayfind.NavContext, next func() error) error {
		// Apply filter if configured
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		attrs := []attribute.KeyValue{}
		if config.IncludeLocation {
			attrs = append(attrs, attribute.String("wayfind.location", ctx.Location().Full()))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		// The route is only known after resolution, so the span starts
		// under a generic name and is renamed once the navigation settles.
		spanCtx, span := config.tracer.Start(
			context.Background(),
			"wayfind.navigate",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		// Store the span context so later middleware and embedder hooks
		// can attach to the navigation's trace.
		ctx.SetValue(spanContextKey{}, spanCtx)

		err := next()

		span.SetName(fmt.Sprintf("wayfind %s", ctx.RouteLabel()))
		span.SetAttributes(
			attribute.String("wayfind.route", ctx.RouteLabel()),
			attribute.String("wayfind.status", ctx.Status().String()),
			attribute.Int("wayfind.redirects", ctx.Redirects()),
		)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}

// spanContextKey is the key for storing the span context in NavContext
// values.
type spanContextKey struct{}

// SpanFromContext retrieves the navigation's trace span from the
// context. Returns nil if the navigation is not traced.
//
// Example:
//
//	r.Use(middleware.OpenTelemetry(), wayfind.MiddlewareFunc(
//	    func(ctx *wayfind.NavContext, next func() error) error {
//	        if span := middleware.SpanFromContext(ctx); span != nil {
//	            span.SetAttributes(attribute.Bool("my.flag", true))
//	        }
//	        return next()
//	    },
//	))
func SpanFromContext(ctx *wayfind.NavContext) trace.Span {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return nil
}

// TraceContext returns the navigation's trace context for propagation.
// Use this to hand the trace to external calls made during resolution.
func TraceContext(ctx *wayfind.NavContext) context.Context {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return spanCtx
	}
	return context.Background()
}
