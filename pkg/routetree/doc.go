// Package routetree implements the route table of a client-side router:
// an ordered tree of route declarations with auth gates and layout groups,
// compiled once into a flat matcher that resolves locations in declaration
// order, first match wins.
//
// A tree is declared with plain structs and built with New:
//
//	tree, err := routetree.New(
//		&routetree.Route{Pattern: "/", Name: "home", Content: homePage},
//		&routetree.Group{Name: "main", Wrapper: mainLayout, Children: []routetree.Node{
//			&routetree.Route{Pattern: "/settings", Name: "settings", Content: settingsPage},
//			&routetree.Route{Pattern: "/projects/{id}", Name: "project", Content: projectPage},
//		}},
//		&routetree.Gate{Fallback: "login", Children: []routetree.Node{
//			&routetree.Route{Pattern: "/admin/{rest...}", Content: adminPage},
//		}},
//		&routetree.Route{Pattern: "/login", Name: "login", Content: loginPage},
//		&routetree.Route{Pattern: "/404", NotFound: true, Content: notFoundPage},
//	)
//
// Patterns are segment templates. A segment is either a literal, a capture
// {name} (legacy form :name), an optional trailing capture {name?} (legacy
// :name?), or a catch-all {rest...} (legacy *rest) that consumes the
// remaining segments. Literals compare case-sensitively against the raw,
// still-encoded request path; captured values are percent-decoded.
//
// Resolution returns a Match carrying the route, the merged parameter bag
// (path captures win over query keys of the same name), and the enclosing
// gate and group chains. Redirect routes match like any other route; the
// caller interpolates the target with ResolveRedirect and resolves again.
//
// Named routes are exposed through a Registry of URL builders. Registries
// are replaced wholesale when the tree is rebuilt; a retired registry's
// builders fail with ErrStaleRegistry rather than building URLs against a
// tree that is no longer live.
package routetree
