// Package history abstracts the navigation history the router observes
// and drives. The in-memory implementation backs tests and server-side
// resolution; the WebSocket bridge mirrors a real browser's history over
// a live connection.
package history

import "strings"

// Location is one history entry, split the way browsers split it: a path
// and a search string that keeps its leading "?" (empty when there is no
// query).
type Location struct {
	Path   string
	Search string
}

// Parse splits a location string into Path and Search.
func Parse(location string) Location {
	path, query, _ := strings.Cut(location, "?")
	if path == "" {
		path = "/"
	}
	loc := Location{Path: path}
	if query != "" {
		loc.Search = "?" + query
	}
	return loc
}

// Full reassembles the location string.
func (l Location) Full() string { return l.Path + l.Search }

// RawQuery returns the search string without its leading "?".
func (l Location) RawQuery() string { return strings.TrimPrefix(l.Search, "?") }

// History is the adapter contract between the router and whatever owns
// the address bar. Navigate pushes a new entry, Replace swaps the current
// one; both notify subscribers. Subscribers are invoked synchronously in
// subscription order.
type History interface {
	Navigate(location string)
	Replace(location string)
	Location() Location
	Subscribe(fn func(Location)) (cancel func())
}
