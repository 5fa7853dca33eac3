package wayfind

import (
	"github.com/wayfind-dev/wayfind/pkg/history"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// NavStatus classifies how a navigation settled.
type NavStatus int

const (
	// StatusMatched means a content route matched and was published.
	StatusMatched NavStatus = iota

	// StatusNotFound means no route matched; the not-found route (or a
	// routeless view) was published.
	StatusNotFound

	// StatusAuthLoading means the matched route sits behind a gate whose
	// provider has not settled; a placeholder view was published.
	StatusAuthLoading

	// StatusAuthRedirect means the matched route sits behind a gate and
	// the visitor is unauthenticated; the router navigated to the gate
	// fallback instead of publishing the route.
	StatusAuthRedirect

	// StatusError means the navigation failed (invalid location, redirect
	// loop, unresolved redirect parameter).
	StatusError
)

// String returns a stable lowercase label, suitable for metrics.
func (s NavStatus) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusNotFound:
		return "not_found"
	case StatusAuthLoading:
		return "auth_loading"
	case StatusAuthRedirect:
		return "auth_redirect"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// NavContext carries one navigation through the middleware chain. The
// fields before next() is called describe the request (the target
// location); the fields after describe the outcome.
type NavContext struct {
	location  history.Location
	match     *routetree.Match
	status    NavStatus
	redirects int
	err       error
	values    map[any]any
}

// Location returns the navigation target as it entered the pipeline.
func (c *NavContext) Location() history.Location { return c.location }

// Match returns the resolution result, or nil before next() completes
// (or when the location failed validation).
func (c *NavContext) Match() *routetree.Match { return c.match }

// Status reports how the navigation settled. Meaningful after next().
func (c *NavContext) Status() NavStatus { return c.status }

// Redirects reports how many redirect hops the navigation followed.
func (c *NavContext) Redirects() int { return c.redirects }

// Err returns the pipeline error, if any. Meaningful after next().
func (c *NavContext) Err() error { return c.err }

// RouteLabel returns a low-cardinality identifier for the settled route:
// the route pattern when matched, "(not found)" otherwise. Use this for
// metric labels instead of the concrete path.
func (c *NavContext) RouteLabel() string {
	if c.match != nil && c.match.Matched() {
		return c.match.Route.Route.Pattern
	}
	return "(not found)"
}

// SetValue stores a value on the context for later middleware in the
// chain (tracing spans, timers).
func (c *NavContext) SetValue(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

// Value retrieves a value stored with SetValue, or nil.
func (c *NavContext) Value(key any) any {
	return c.values[key]
}

// Middleware observes or augments navigations. Implementations wrap the
// resolution pipeline: work before next() sees the target location, work
// after sees the outcome on the context.
type Middleware interface {
	// Handle processes the navigation and optionally calls next.
	// Return an error to fail the navigation; returning nil without
	// calling next abandons it silently.
	Handle(ctx *NavContext, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx *NavContext, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *NavContext, next func() error) error {
	return f(ctx, next)
}

// composeMiddleware runs the chain in order (first to last) with the
// pipeline at the end.
func composeMiddleware(ctx *NavContext, mw []Middleware, pipeline func() error) error {
	if len(mw) == 0 {
		return pipeline()
	}

	// Build chain from end to start
	var chain func() error
	chain = pipeline

	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *NavContext, next func() error) error {
		return composeMiddleware(ctx, middleware, next)
	})
}

// Skip runs mw only when the condition is false.
func Skip(condition func(ctx *NavContext) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *NavContext, next func() error) error {
		if condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// Only runs mw only when the condition is true.
func Only(condition func(ctx *NavContext) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *NavContext, next func() error) error {
		if !condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}
