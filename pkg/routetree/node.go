package routetree

import "fmt"

// Node is a declaration in a route tree: a Route leaf, or a Gate or Group
// wrapping child declarations.
type Node interface {
	node()
}

// Route declares one addressable entry in the tree.
type Route struct {
	// Pattern is the path template this route matches.
	Pattern string

	// Name registers the route in the URL-builder registry. Names must be
	// unique within a tree. Empty means unnamed.
	Name string

	// Redirect is a target template interpolated from the matched
	// parameters. A route either redirects or carries Content, not both.
	Redirect string

	// NotFound designates this route as the tree's fallback for paths no
	// pattern matches. At most one per tree. The Pattern is still required
	// so the fallback remains directly addressable.
	NotFound bool

	// Content is the page reference handed to the rendering layer. Opaque
	// to the tree.
	Content any

	// WhileLoading produces a placeholder shown while an enclosing gate's
	// auth provider is still loading. Optional.
	WhileLoading func() any
}

func (*Route) node() {}

// Gate protects its children behind an authentication check.
type Gate struct {
	// Fallback names the route unauthenticated visitors are sent to.
	Fallback string

	Children []Node
}

func (*Gate) node() {}

// Group wraps its children in a shared layout. The wrapper instance is kept
// alive while navigation stays among the group's children.
type Group struct {
	// Name is an optional label used in manifests and logs.
	Name string

	// Wrapper is the layout reference handed to the rendering layer.
	// Opaque to the tree.
	Wrapper any

	Children []Node
}

func (*Group) node() {}

// GateNode is a compiled gate occurrence. Each Gate declaration site
// produces exactly one GateNode per build.
type GateNode struct {
	id       int
	Fallback string
}

// ID returns the gate's position in declaration order, unique per build.
func (g *GateNode) ID() int { return g.id }

func (g *GateNode) String() string {
	return fmt.Sprintf("gate#%d(fallback=%s)", g.id, g.Fallback)
}

// GroupNode is a compiled group occurrence. Identity is the declaration
// site: two routes share a wrapper instance exactly when their chains hold
// the same *GroupNode. A rebuild allocates fresh nodes, so wrappers never
// survive a tree swap.
type GroupNode struct {
	id      int
	Name    string
	Wrapper any
}

// ID returns the group's position in declaration order, unique per build.
func (g *GroupNode) ID() int { return g.id }

func (g *GroupNode) String() string {
	if g.Name != "" {
		return fmt.Sprintf("group#%d(%s)", g.id, g.Name)
	}
	return fmt.Sprintf("group#%d", g.id)
}
