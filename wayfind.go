// Package wayfind is the route-resolution core of a client-side router.
// A Router owns a route tree and drives the navigation pipeline against a
// pluggable history adapter and auth provider:
//
//	location change -> clean path -> resolve -> follow redirects ->
//	auth gate -> layout diff -> publish View
//
// The rendering layer subscribes to the Router and receives a View per
// settled navigation: the matched route's content, the merged parameters,
// the gate status, and which layout wrappers to keep, tear down, and
// mount. Page content and wrappers are opaque to the core.
//
//	r, err := wayfind.New(wayfind.Config{History: h, Auth: sessions},
//		&wayfind.Route{Pattern: "/", Name: "home", Content: home},
//		&wayfind.Gate{Fallback: "login", Children: []wayfind.Node{
//			&wayfind.Route{Pattern: "/account", Name: "account", Content: account},
//		}},
//		&wayfind.Route{Pattern: "/login", Name: "login", Content: login},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	cancel := r.Subscribe(render)
//	defer cancel()
//	r.Start()
package wayfind

import (
	"github.com/wayfind-dev/wayfind/pkg/params"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// Re-exported declaration types, so embedders assemble trees without
// importing the tree package directly.
type (
	Node  = routetree.Node
	Route = routetree.Route
	Gate  = routetree.Gate
	Group = routetree.Group
	Match = routetree.Match
	Bag   = params.Bag
)
