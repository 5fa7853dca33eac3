package middleware

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wayfind-dev/wayfind"
)

func TestOpenTelemetry_SpanAvailableToLaterMiddleware(t *testing.T) {
	var sawSpan bool
	var traceCtx context.Context

	probe := wayfind.MiddlewareFunc(func(ctx *wayfind.NavContext, next func() error) error {
		sawSpan = SpanFromContext(ctx) != nil
		traceCtx = TraceContext(ctx)
		return next()
	})

	r, _ := startObservedRouter(t, wayfind.Config{}, OpenTelemetry(), probe)
	if err := r.Navigate("/projects/1"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if !sawSpan {
		t.Error("SpanFromContext returned nil inside a traced navigation")
	}
	if traceCtx == nil || traceCtx == context.Background() {
		t.Error("TraceContext did not return the span context")
	}
}

func TestOpenTelemetry_FilterSkipsNavigation(t *testing.T) {
	var spans []bool

	probe := wayfind.MiddlewareFunc(func(ctx *wayfind.NavContext, next func() error) error {
		spans = append(spans, SpanFromContext(ctx) != nil)
		return next()
	})

	mw := OpenTelemetry(WithNavFilter(func(ctx *wayfind.NavContext) bool {
		return ctx.Location().Path != "/login"
	}))

	r, _ := startObservedRouter(t, wayfind.Config{}, mw, probe)
	if err := r.Navigate("/login"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	// Index 0 is the initial "/" resolution (traced), index 1 the
	// filtered /login navigation.
	if len(spans) != 2 {
		t.Fatalf("observed %d navigations, want 2", len(spans))
	}
	if !spans[0] {
		t.Error("initial navigation was not traced")
	}
	if spans[1] {
		t.Error("filtered navigation was traced")
	}
}

func TestOpenTelemetry_TraceContextFallsBack(t *testing.T) {
	var traceCtx context.Context

	probe := wayfind.MiddlewareFunc(func(ctx *wayfind.NavContext, next func() error) error {
		traceCtx = TraceContext(ctx)
		return next()
	})

	// No OpenTelemetry middleware installed at all.
	r, _ := startObservedRouter(t, wayfind.Config{}, probe)
	if err := r.Navigate("/projects/1"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if traceCtx != context.Background() {
		t.Error("TraceContext without tracing should fall back to Background")
	}
}

func TestOTelOptions(t *testing.T) {
	extractor := func(ctx *wayfind.NavContext) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.Bool("custom", true)}
	}
	filter := func(ctx *wayfind.NavContext) bool { return false }

	config := defaultOTelConfig()
	for _, opt := range []OTelOption{
		WithTracerName("my-app"),
		WithIncludeLocation(false),
		WithNavFilter(filter),
		WithAttributeExtractor(extractor),
	} {
		opt(&config)
	}

	if config.TracerName != "my-app" {
		t.Errorf("TracerName = %q, want %q", config.TracerName, "my-app")
	}
	if config.IncludeLocation {
		t.Error("IncludeLocation option not applied")
	}
	if config.Filter == nil {
		t.Error("Filter option not applied")
	}
	if config.AttributeExtractor == nil {
		t.Error("AttributeExtractor option not applied")
	}
	if got := config.AttributeExtractor(nil); len(got) != 1 || got[0].Key != "custom" {
		t.Errorf("extractor returned %v, want one custom attribute", got)
	}
}

func TestOTelDefaults(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != defaultTracerName {
		t.Errorf("TracerName = %q, want %q", config.TracerName, defaultTracerName)
	}
	if !config.IncludeLocation {
		t.Error("IncludeLocation should default to true")
	}
	if config.Filter != nil {
		t.Error("Filter should default to nil")
	}
}
