package wayfind

import (
	"strings"
	"sync"

	"github.com/wayfind-dev/wayfind/pkg/history"
	"github.com/wayfind-dev/wayfind/pkg/params"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// GateStatus describes the auth outcome a View was published under.
type GateStatus int

const (
	// GateNone means the route is not behind a gate.
	GateNone GateStatus = iota

	// GateLoading means the gate provider had not settled; Placeholder
	// carries the route's loading content, and Content is nil.
	GateLoading

	// GatePassed means the visitor was authenticated for the gate.
	GatePassed
)

// String returns a readable label for logs.
func (g GateStatus) String() string {
	switch g {
	case GateNone:
		return "none"
	case GateLoading:
		return "loading"
	case GatePassed:
		return "passed"
	default:
		return "unknown"
	}
}

// View is what the router publishes to subscribers after a navigation
// settles. It is a snapshot: the router never mutates a published View.
type View struct {
	// Location is the address the view was resolved for, after cleaning
	// and redirects.
	Location history.Location

	// Match is the resolution result. Nil only when the location itself
	// was invalid (Err is set).
	Match *routetree.Match

	// Params is the merged parameter bag: path captures over query
	// values. Empty (never nil) for not-found views.
	Params params.Bag

	// Content is the matched route's opaque page content. Nil while a
	// gate is loading and for routeless not-found views.
	Content any

	// Gate reports the auth outcome this view was published under.
	Gate GateStatus

	// Placeholder carries the route's loading content when Gate is
	// GateLoading.
	Placeholder any

	// Wrappers tells the renderer which layout wrappers survive this
	// navigation, which to tear down, and which to mount fresh.
	Wrappers Wrappers

	// NotFound marks views published for unmatched locations.
	NotFound bool

	// Err is set when the navigation failed: invalid location, redirect
	// loop, or an unresolvable redirect template.
	Err error
}

// RouteName returns the settled route's name, or "(none)".
func (v *View) RouteName() string {
	if v.Match == nil {
		return "(none)"
	}
	return v.Match.RouteName()
}

// Matched reports whether the view carries a route at all. Not-found
// views with a fallback route still report true.
func (v *View) Matched() bool {
	return v.Match != nil && v.Match.Matched()
}

// IsActive reports whether the view's path equals prefix or sits below
// it on a segment boundary. "/users" is active for "/users/42" but not
// for "/users-archive". The root prefix "/" is active only for the root
// path itself.
func (v *View) IsActive(prefix string) bool {
	path := v.Location.Path
	if prefix == "" {
		return false
	}
	if path == prefix {
		return true
	}
	if prefix == "/" {
		return false
	}
	return strings.HasPrefix(path, prefix+"/")
}

// Wrappers describes the layout transition for one navigation. Slices
// are ordered outermost first. Renderers tear down in reverse order and
// mount in order.
type Wrappers struct {
	// Keep are wrappers shared with the previous view; their instances
	// (and any state stored on them) are preserved.
	Keep []*GroupInstance

	// TearDown are the previous view's wrappers that no longer apply.
	// Their instances are already unmounted; state stored on them is
	// gone.
	TearDown []*GroupInstance

	// MountNew are wrappers entering with this view, freshly
	// instantiated.
	MountNew []*GroupInstance
}

// Active returns the wrappers enclosing this view, outermost first:
// Keep followed by MountNew.
func (w Wrappers) Active() []*GroupInstance {
	if len(w.Keep) == 0 && len(w.MountNew) == 0 {
		return nil
	}
	out := make([]*GroupInstance, 0, len(w.Keep)+len(w.MountNew))
	out = append(out, w.Keep...)
	out = append(out, w.MountNew...)
	return out
}

// GroupInstance is one live mounting of a layout group. Instances carry
// renderer state across the navigations that keep the group mounted; a
// group that is torn down and later re-entered gets a fresh instance.
type GroupInstance struct {
	group *routetree.GroupNode

	mu     sync.RWMutex
	values map[string]any
}

func newGroupInstance(g *routetree.GroupNode) *GroupInstance {
	return &GroupInstance{group: g}
}

// Group returns the compiled group this instance mounts.
func (gi *GroupInstance) Group() *routetree.GroupNode { return gi.group }

// Name returns the declared group name.
func (gi *GroupInstance) Name() string { return gi.group.Name }

// Wrapper returns the group's opaque wrapper content.
func (gi *GroupInstance) Wrapper() any { return gi.group.Wrapper }

// Set stores a value on the instance. It survives navigations within
// the group and is discarded when the instance is torn down.
func (gi *GroupInstance) Set(key string, value any) {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	if gi.values == nil {
		gi.values = make(map[string]any)
	}
	gi.values[key] = value
}

// Get retrieves a value stored with Set.
func (gi *GroupInstance) Get(key string) (any, bool) {
	gi.mu.RLock()
	defer gi.mu.RUnlock()
	v, ok := gi.values[key]
	return v, ok
}

// Delete removes a stored value.
func (gi *GroupInstance) Delete(key string) {
	gi.mu.Lock()
	defer gi.mu.Unlock()
	delete(gi.values, key)
}
