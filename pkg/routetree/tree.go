package routetree

import (
	"fmt"
	"strings"
)

// CompiledRoute is one Route flattened out of the tree, carrying its
// compiled pattern and the gate and group chains that enclose it,
// outermost first.
type CompiledRoute struct {
	Route   *Route
	Pattern *Pattern
	Gates   []*GateNode
	Groups  []*GroupNode

	redirect *Pattern // compiled Redirect template, nil for page routes
}

// Name returns the route's registered name, or its pattern when unnamed.
// Used for logs and observability labels.
func (cr *CompiledRoute) Name() string {
	if cr.Route.Name != "" {
		return cr.Route.Name
	}
	return cr.Route.Pattern
}

// IsRedirect reports whether the route forwards to another location
// instead of carrying content.
func (cr *CompiledRoute) IsRedirect() bool { return cr.redirect != nil }

// Gate returns the outermost enclosing gate, which governs access to the
// route, or nil when the route is ungated.
func (cr *CompiledRoute) Gate() *GateNode {
	if len(cr.Gates) == 0 {
		return nil
	}
	return cr.Gates[0]
}

// Tree is a built route table. Trees are immutable once built; rebuilding
// produces a fresh Tree with fresh gate and group identities.
type Tree struct {
	decls    []Node
	routes   []*CompiledRoute
	notFound *CompiledRoute
	byName   map[string]*CompiledRoute
}

// New compiles a declaration list into a Tree. All declaration problems
// are collected and reported together as a *MultiError: invalid patterns,
// a route declaring both content and a redirect, duplicate route names,
// more than one not-found route, gate fallbacks that are unnamed, gated,
// or need path parameters.
func New(nodes ...Node) (*Tree, error) {
	t := &Tree{
		decls:  nodes,
		byName: make(map[string]*CompiledRoute),
	}

	var errs []error
	var gateSeq, groupSeq int

	var walk func(nodes []Node, gates []*GateNode, groups []*GroupNode)
	walk = func(nodes []Node, gates []*GateNode, groups []*GroupNode) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *Route:
				cr := compileRoute(n, gates, groups, &errs)
				if cr == nil {
					continue
				}
				t.routes = append(t.routes, cr)

				if n.Name != "" {
					if _, dup := t.byName[n.Name]; dup {
						errs = append(errs, fmt.Errorf("duplicate route name %q", n.Name))
					} else {
						t.byName[n.Name] = cr
					}
				}
				if n.NotFound {
					if t.notFound != nil {
						errs = append(errs, fmt.Errorf("multiple not-found routes: %q and %q", t.notFound.Route.Pattern, n.Pattern))
					} else {
						t.notFound = cr
					}
				}

			case *Gate:
				gate := &GateNode{id: gateSeq, Fallback: n.Fallback}
				gateSeq++
				walk(n.Children, append(gates[:len(gates):len(gates)], gate), groups)

			case *Group:
				group := &GroupNode{id: groupSeq, Name: n.Name, Wrapper: n.Wrapper}
				groupSeq++
				walk(n.Children, gates, append(groups[:len(groups):len(groups)], group))

			default:
				errs = append(errs, fmt.Errorf("unknown node type %T", node))
			}
		}
	}
	walk(nodes, nil, nil)

	validateGates(t, &errs)

	if len(errs) > 0 {
		return nil, &MultiError{Errors: errs}
	}
	return t, nil
}

func compileRoute(r *Route, gates []*GateNode, groups []*GroupNode, errs *[]error) *CompiledRoute {
	pat, err := Compile(r.Pattern)
	if err != nil {
		*errs = append(*errs, err)
		return nil
	}

	cr := &CompiledRoute{
		Route:   r,
		Pattern: pat,
		Gates:   gates,
		Groups:  groups,
	}

	if r.Redirect != "" {
		if r.Content != nil {
			*errs = append(*errs, fmt.Errorf("route %q declares both content and a redirect", r.Pattern))
			return nil
		}
		tpl, err := Compile(r.Redirect)
		if err != nil {
			*errs = append(*errs, err)
			return nil
		}
		cr.redirect = tpl
	}

	return cr
}

// validateGates checks every gate's fallback after the whole tree is
// known: the name must exist, the fallback must not sit behind the gate
// that uses it, and its pattern must be buildable without parameters.
func validateGates(t *Tree, errs *[]error) {
	checked := make(map[*GateNode]bool)
	for _, cr := range t.routes {
		for _, gate := range cr.Gates {
			if checked[gate] {
				continue
			}
			checked[gate] = true

			if gate.Fallback == "" {
				*errs = append(*errs, fmt.Errorf("gate has no fallback route name"))
				continue
			}
			target, ok := t.byName[gate.Fallback]
			if !ok {
				*errs = append(*errs, fmt.Errorf("gate fallback %q does not name a route", gate.Fallback))
				continue
			}
			for _, enclosing := range target.Gates {
				if enclosing == gate {
					*errs = append(*errs, fmt.Errorf("gate fallback %q is itself behind the gate", gate.Fallback))
					break
				}
			}
			if req := target.Pattern.RequiredParams(); len(req) > 0 {
				*errs = append(*errs, fmt.Errorf("gate fallback %q requires path parameters %v", gate.Fallback, req))
			}
		}
	}
}

// Routes returns the flattened routes in declaration order.
func (t *Tree) Routes() []*CompiledRoute { return t.routes }

// NotFound returns the designated fallback route, or nil.
func (t *Tree) NotFound() *CompiledRoute { return t.notFound }

// Lookup finds a route by registered name.
func (t *Tree) Lookup(name string) (*CompiledRoute, bool) {
	cr, ok := t.byName[name]
	return cr, ok
}

// Decls returns the original declaration list, preserving nesting.
func (t *Tree) Decls() []Node { return t.decls }

// Len returns the number of routes in the tree.
func (t *Tree) Len() int { return len(t.routes) }

func (t *Tree) String() string {
	patterns := make([]string, len(t.routes))
	for i, cr := range t.routes {
		patterns[i] = cr.Route.Pattern
	}
	return "routetree[" + strings.Join(patterns, " ") + "]"
}
