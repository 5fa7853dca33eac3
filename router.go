package wayfind

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/wayfind-dev/wayfind/pkg/authgate"
	"github.com/wayfind-dev/wayfind/pkg/groups"
	"github.com/wayfind-dev/wayfind/pkg/history"
	"github.com/wayfind-dev/wayfind/pkg/params"
	"github.com/wayfind-dev/wayfind/pkg/routepath"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// ErrRedirectLoop is returned (on View.Err) when a navigation follows
// more redirect hops than Config.MaxRedirectHops allows.
var ErrRedirectLoop = errors.New("redirect limit exceeded")

// ErrStarted is returned by Start when the router is already running.
var ErrStarted = errors.New("router already started")

// =============================================================================
// Router
// =============================================================================

// Router owns a route tree and resolves history changes into Views.
//
// Create one with wayfind.New, subscribe the rendering layer, then Start:
//
//	r, err := wayfind.New(cfg, routes...)
//	if err != nil {
//	    return err
//	}
//	cancel := r.Subscribe(func(v *wayfind.View) { render(v) })
//	defer cancel()
//	if err := r.Start(); err != nil {
//	    return err
//	}
//
// Resolution is synchronous: by the time Navigate returns, subscribers
// have seen the settled View, including any redirects the navigation
// followed. Methods are safe for concurrent use, but the router is
// designed for the single-goroutine rhythm of a UI loop; subscriber
// callbacks run on whichever goroutine triggered the navigation.
type Router struct {
	cfg Config
	log *slog.Logger

	mu         sync.Mutex
	tree       *routetree.Tree
	registry   *routetree.Registry
	arena      *groups.Arena[*routetree.GroupNode, *GroupInstance]
	chain      []*routetree.GroupNode
	middleware []Middleware
	subs       map[int]func(*View)
	nextSub    int
	current    *View
	applied    string
	navSeq     uint64
	started    bool
	cancelHist func()
	cancelAuth func()
}

// New creates a Router for the given declarations. Declaration problems
// (invalid patterns, duplicate names, bad gate fallbacks) are collected
// and returned together; see routetree.MultiError.
func New(cfg Config, nodes ...Node) (*Router, error) {
	tree, err := routetree.New(nodes...)
	if err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	r := &Router{
		cfg:      cfg,
		log:      cfg.Logger,
		tree:     tree,
		registry: routetree.NewRegistry(tree),
		subs:     make(map[int]func(*View)),
	}
	r.arena = groups.NewArena[*routetree.GroupNode, *GroupInstance](
		newGroupInstance,
		nil,
	)
	return r, nil
}

// =============================================================================
// Lifecycle
// =============================================================================

// Start subscribes the router to its history adapter and resolves the
// current location. If the auth provider implements authgate.Notifier,
// auth changes re-evaluate the current route automatically.
func (r *Router) Start() error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrStarted
	}
	r.started = true
	r.mu.Unlock()

	r.cancelHist = r.cfg.History.Subscribe(r.onLocation)
	if n, ok := r.cfg.Auth.(authgate.Notifier); ok {
		r.cancelAuth = n.Subscribe(r.RefreshAuth)
	}

	r.onLocation(r.cfg.History.Location())
	return nil
}

// Stop detaches the router from its history adapter and auth provider.
// The current view and mounted wrappers are left in place.
func (r *Router) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	cancelHist, cancelAuth := r.cancelHist, r.cancelAuth
	r.cancelHist, r.cancelAuth = nil, nil
	r.mu.Unlock()

	if cancelHist != nil {
		cancelHist()
	}
	if cancelAuth != nil {
		cancelAuth()
	}
}

// Rebuild replaces the route table wholesale. The old registry is
// retired, so URL builders handed out before the rebuild start failing
// with routetree.ErrStaleRegistry. Group identities do not survive: the
// next published view tears down every mounted wrapper and mounts fresh
// instances. If the router is started, the current location is resolved
// against the new table immediately.
func (r *Router) Rebuild(nodes ...Node) error {
	tree, err := routetree.New(nodes...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	old := r.registry
	r.tree = tree
	r.registry = routetree.NewRegistry(tree)
	r.applied = ""
	started := r.started
	r.mu.Unlock()

	old.Retire()
	if started {
		r.onLocation(r.cfg.History.Location())
	}
	return nil
}

// Clear empties the route table and tears down all mounted wrappers.
// Subsequent navigations resolve to a routeless not-found view. Like
// Rebuild, the old registry is retired.
func (r *Router) Clear() {
	empty, err := routetree.New()
	if err != nil {
		// New without declarations cannot fail.
		panic(err)
	}

	r.mu.Lock()
	old := r.registry
	r.tree = empty
	r.registry = routetree.NewRegistry(empty)
	r.navSeq++
	r.applied = ""
	r.current = nil
	for i := len(r.chain) - 1; i >= 0; i-- {
		r.arena.Unmount(r.chain[i])
	}
	r.chain = nil
	r.mu.Unlock()

	old.Retire()
}

// Use appends middleware to the navigation pipeline. Middleware runs in
// registration order around every resolution. Register before Start;
// navigations already in flight keep the chain they started with.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// Subscribe registers a callback invoked with every published View. If a
// view is already current, the callback receives it synchronously before
// Subscribe returns. The returned cancel removes the subscription.
func (r *Router) Subscribe(fn func(*View)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	current := r.current
	r.mu.Unlock()

	if current != nil {
		fn(current)
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// =============================================================================
// Navigation
// =============================================================================

// Navigate pushes a new location onto history and resolves it. The
// location must be app-internal ("/path" or "/path?query"); absolute
// URLs are rejected. Resolution completes before Navigate returns.
func (r *Router) Navigate(location string, opts ...NavigateOption) error {
	o := buildNavigateOptions(opts)

	target, err := routepath.CleanLocation(location)
	if err != nil {
		return err
	}
	if len(o.Params) > 0 {
		qs, err := params.Serialize(o.Params)
		if err != nil {
			return err
		}
		target = appendQuery(target, qs)
	}

	if o.Replace {
		r.cfg.History.Replace(target)
	} else {
		r.cfg.History.Navigate(target)
	}
	return nil
}

// NavigateTo navigates to a named route, building its URL from the bag.
// Bag keys the pattern does not consume become query parameters.
func (r *Router) NavigateTo(name string, bag params.Bag, opts ...NavigateOption) error {
	o := buildNavigateOptions(opts)
	if len(o.Params) > 0 {
		merged := o.Params.Clone()
		for k, v := range bag {
			merged[k] = v
		}
		bag = merged
	}

	r.mu.Lock()
	reg := r.registry
	r.mu.Unlock()

	target, err := reg.URL(name, bag)
	if err != nil {
		return err
	}

	if o.Replace {
		r.cfg.History.Replace(target)
	} else {
		r.cfg.History.Navigate(target)
	}
	return nil
}

// URL builds the location for a named route without navigating.
func (r *Router) URL(name string, bag params.Bag) (string, error) {
	r.mu.Lock()
	reg := r.registry
	r.mu.Unlock()
	return reg.URL(name, bag)
}

// Routes returns the live URL-builder registry. Builders obtained from
// it fail with routetree.ErrStaleRegistry after a Rebuild or Clear.
func (r *Router) Routes() *routetree.Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry
}

// Tree returns the current route table. Most apps won't need this.
func (r *Router) Tree() *routetree.Tree {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree
}

// Current returns the last published view, or nil before the first
// resolution.
func (r *Router) Current() *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Location returns the history adapter's current location.
func (r *Router) Location() history.Location {
	return r.cfg.History.Location()
}

// RefreshAuth re-evaluates the current location against the auth
// provider. Call it when auth state changes and the provider does not
// implement authgate.Notifier: a gated view that was waiting on a
// loading provider resolves, and a view whose session expired redirects
// to the gate fallback.
func (r *Router) RefreshAuth() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.applied = ""
	r.mu.Unlock()

	r.onLocation(r.cfg.History.Location())
}

// =============================================================================
// Resolution pipeline
// =============================================================================

// onLocation is the history subscription entry point. Every navigation
// funnels through here: programmatic Navigate calls, address-bar changes
// from the adapter, and the router's own redirect writes (which are
// swallowed by the applied check).
func (r *Router) onLocation(loc history.Location) {
	full := loc.Full()

	r.mu.Lock()
	if full == r.applied {
		r.mu.Unlock()
		return
	}
	r.navSeq++
	seq := r.navSeq
	mws := r.middleware
	r.mu.Unlock()

	ctx := &NavContext{location: loc}
	var view *View
	var followUp string

	err := composeMiddleware(ctx, mws, func() error {
		var pipeErr error
		view, followUp, pipeErr = r.runPipeline(ctx)
		return pipeErr
	})
	if err != nil {
		r.log.Error("navigation failed",
			"location", full,
			"route", ctx.RouteLabel(),
			"error", err)
		if view == nil {
			view = &View{
				Location: loc,
				Match:    ctx.match,
				Params:   params.Bag{},
				NotFound: true,
				Err:      err,
			}
		}
	}

	if followUp != "" {
		// Unauthenticated gate: push the fallback instead of publishing.
		// The push re-enters onLocation and publishes the fallback view.
		r.cfg.History.Navigate(followUp)
		return
	}
	if view != nil {
		r.publish(seq, view)
	}
}

// runPipeline resolves one location: clean, match, follow redirects,
// check the gate. It returns the view to publish, or a follow-up
// location to navigate to instead (auth fallback), or an error. It never
// mutates router state beyond the applied-location bookkeeping.
func (r *Router) runPipeline(ctx *NavContext) (*View, string, error) {
	r.mu.Lock()
	tree, reg := r.tree, r.registry
	r.mu.Unlock()

	res, err := routepath.Clean(ctx.location.Full())
	if err != nil {
		ctx.status = StatusError
		ctx.err = err
		return nil, "", fmt.Errorf("invalid location %q: %w", ctx.location.Full(), err)
	}

	loc := history.Location{Path: res.Path}
	if res.Query != "" {
		loc.Search = "?" + res.Query
	}
	if res.Changed {
		// Sync the address bar with the cleaned form, replacing so the
		// raw location leaves no history entry.
		r.setApplied(loc.Full())
		r.cfg.History.Replace(loc.Full())
	}

	entry := loc.Full()
	m := tree.Resolve(entry)

	hops := 0
	for m.IsRedirect() {
		hops++
		ctx.redirects = hops
		if hops > r.cfg.MaxRedirectHops {
			ctx.status = StatusError
			ctx.err = fmt.Errorf("%w: %d hops from %q", ErrRedirectLoop, hops, entry)
			ctx.match = m
			return r.errorView(loc, ctx), "", ctx.err
		}

		target, err := m.ResolveRedirect()
		if err != nil {
			ctx.status = StatusError
			ctx.err = err
			ctx.match = m
			return r.errorView(loc, ctx), "", err
		}
		r.log.Debug("following redirect",
			"from", m.Location(),
			"to", target,
			"hop", hops)
		loc = history.Parse(target)
		m = tree.Resolve(target)
	}
	ctx.match = m

	if loc.Full() != entry {
		// The redirect chain settled elsewhere; show the final location
		// without stacking intermediate history entries.
		r.setApplied(loc.Full())
		r.cfg.History.Replace(loc.Full())
	} else {
		r.setApplied(entry)
	}

	gateStatus := GateNone
	if gate := m.Gate(); gate != nil {
		snap := r.cfg.Auth.Snapshot()
		switch authgate.Classify(snap) {
		case authgate.StateLoading:
			ctx.status = StatusAuthLoading
			view := &View{
				Location:    loc,
				Match:       m,
				Params:      m.Params,
				Gate:        GateLoading,
				Placeholder: loadingContent(m),
			}
			return view, "", nil

		case authgate.StateUnauthenticated:
			fallback, err := reg.URL(gate.Fallback, nil)
			if err != nil {
				// Tree validation guarantees the fallback is buildable;
				// a stale registry mid-rebuild is the only path here.
				ctx.status = StatusError
				ctx.err = err
				return r.errorView(loc, ctx), "", err
			}
			ctx.status = StatusAuthRedirect
			r.log.Info("gate redirect",
				"route", m.RouteName(),
				"fallback", gate.Fallback)
			return nil, authgate.FallbackTarget(fallback, loc.Path, loc.Search), nil

		case authgate.StateAuthenticated:
			gateStatus = GatePassed
		}
	}

	view := &View{
		Location: loc,
		Match:    m,
		Params:   m.Params,
		Gate:     gateStatus,
	}
	if m.Matched() {
		view.Content = m.Route.Route.Content
	}
	if m.NotFound {
		view.NotFound = true
		ctx.status = StatusNotFound
	} else {
		ctx.status = StatusMatched
	}
	return view, "", nil
}

// publish applies the layout transition for the view and delivers it to
// subscribers. A navigation that was superseded while resolving is
// dropped: the last navigation wins.
func (r *Router) publish(seq uint64, view *View) {
	r.mu.Lock()
	if seq != r.navSeq {
		r.mu.Unlock()
		return
	}

	var next []*routetree.GroupNode
	if view.Match != nil {
		next = view.Match.Groups()
	}
	tr := groups.Diff(r.chain, next)

	var w Wrappers
	for _, g := range tr.Keep {
		if inst, ok := r.arena.Lookup(g); ok {
			w.Keep = append(w.Keep, inst)
		}
	}
	for _, g := range tr.TearDown {
		if inst, ok := r.arena.Lookup(g); ok {
			w.TearDown = append(w.TearDown, inst)
		}
	}
	// Unmount innermost first, mount outermost first.
	for i := len(tr.TearDown) - 1; i >= 0; i-- {
		r.arena.Unmount(tr.TearDown[i])
	}
	for _, g := range tr.MountNew {
		w.MountNew = append(w.MountNew, r.arena.Mount(g))
	}
	r.chain = next
	view.Wrappers = w
	r.current = view

	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(*View), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.subs[id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(view)
	}

	r.log.Debug("view published",
		"location", view.Location.Full(),
		"route", view.RouteName(),
		"gate", view.Gate.String(),
		"not_found", view.NotFound)
}

func (r *Router) setApplied(full string) {
	r.mu.Lock()
	r.applied = full
	r.mu.Unlock()
}

func (r *Router) errorView(loc history.Location, ctx *NavContext) *View {
	return &View{
		Location: loc,
		Match:    ctx.match,
		Params:   params.Bag{},
		NotFound: true,
		Err:      ctx.err,
	}
}

func loadingContent(m *routetree.Match) any {
	if m.Route == nil || m.Route.Route.WhileLoading == nil {
		return nil
	}
	return m.Route.Route.WhileLoading()
}

func appendQuery(target, qs string) string {
	if qs == "" {
		return target
	}
	if strings.Contains(target, "?") {
		return target + "&" + qs
	}
	return target + "?" + qs
}
