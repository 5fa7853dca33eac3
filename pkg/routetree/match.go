package routetree

import (
	"strings"

	"github.com/wayfind-dev/wayfind/pkg/params"
	"github.com/wayfind-dev/wayfind/pkg/routepath"
)

// Match is the result of resolving one location against a tree.
type Match struct {
	// Route is the winning route, or nil when nothing matched and the
	// tree declares no not-found fallback.
	Route *CompiledRoute

	// Params merges the pattern's captures with the query string; path
	// captures win over query keys of the same name. Empty for a
	// not-found result.
	Params params.Bag

	// Path is the normalized path that was matched, without the query.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// NotFound is true when no pattern matched, whether or not a
	// fallback route was available.
	NotFound bool
}

// Resolve matches a location ("/path" or "/path?query") against the tree
// in declaration order; the first pattern that matches wins. Unmatched
// locations yield the tree's not-found route with an empty bag, or a
// routeless Match when no fallback is declared. Resolution itself never
// fails: a no-match is an answer, not an error.
func (t *Tree) Resolve(location string) *Match {
	path, query := routepath.Split(location)
	segs := routepath.Segments(path)
	normPath := "/" + strings.Join(segs, "/")

	for _, cr := range t.routes {
		captures, ok := cr.Pattern.Match(segs)
		if !ok {
			continue
		}
		return &Match{
			Route:  cr,
			Params: params.Merge(captures, query),
			Path:   normPath,
			Query:  query,
		}
	}

	return &Match{
		Route:    t.notFound,
		Params:   params.Bag{},
		Path:     normPath,
		Query:    query,
		NotFound: true,
	}
}

// Matched reports whether the match carries a route at all.
func (m *Match) Matched() bool { return m.Route != nil }

// IsRedirect reports whether the matched route forwards elsewhere.
func (m *Match) IsRedirect() bool { return m.Route != nil && m.Route.IsRedirect() }

// Groups returns the matched route's enclosing group chain, outermost
// first. Nil for a routeless match.
func (m *Match) Groups() []*GroupNode {
	if m.Route == nil {
		return nil
	}
	return m.Route.Groups
}

// Gate returns the gate governing the matched route, or nil.
func (m *Match) Gate() *GateNode {
	if m.Route == nil {
		return nil
	}
	return m.Route.Gate()
}

// RouteName returns a stable label for the matched route: its name, its
// pattern, or "(none)" for a routeless match.
func (m *Match) RouteName() string {
	if m.Route == nil {
		return "(none)"
	}
	return m.Route.Name()
}

// Location reassembles the matched path with its query string.
func (m *Match) Location() string {
	if m.Query != "" {
		return m.Path + "?" + m.Query
	}
	return m.Path
}
