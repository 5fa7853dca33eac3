// Package manifest serializes a route tree to JSON and back.
//
// A manifest is the declaration shape of a tree with the opaque parts
// (page content, layout wrappers) stripped out. It round-trips losslessly
// for everything tooling cares about: patterns, names, redirect templates,
// the not-found designation, gate fallbacks, and group nesting:
//
//	{
//	  "version": 1,
//	  "entries": [
//	    {"kind": "route", "pattern": "/", "name": "home"},
//	    {"kind": "gate", "fallback": "login", "children": [
//	      {"kind": "route", "pattern": "/private/{id}", "name": "private"}
//	    ]}
//	  ]
//	}
//
// Export walks a built tree, Load reads a manifest from disk, and Tree
// rebuilds a content-less tree that resolves exactly like the original.
// Publisher ships a manifest to S3 for consumption by other tooling.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// Version is the manifest format version written by Export and required
// by Decode.
const Version = 1

// Entry kinds.
const (
	KindRoute = "route"
	KindGate  = "gate"
	KindGroup = "group"
)

// Entry is one declaration in a manifest. Kind selects which fields are
// meaningful: routes carry Pattern/Name/Redirect/NotFound, gates carry
// Fallback and Children, groups carry Name and Children.
type Entry struct {
	Kind     string  `json:"kind"`
	Pattern  string  `json:"pattern,omitempty"`
	Name     string  `json:"name,omitempty"`
	Redirect string  `json:"redirect,omitempty"`
	NotFound bool    `json:"notFound,omitempty"`
	Fallback string  `json:"fallback,omitempty"`
	Children []Entry `json:"children,omitempty"`
}

// Manifest is the serialized declaration shape of a route tree.
type Manifest struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Export captures a built tree's declarations as a manifest.
func Export(t *routetree.Tree) *Manifest {
	return &Manifest{
		Version: Version,
		Entries: exportNodes(t.Decls()),
	}
}

func exportNodes(nodes []routetree.Node) []Entry {
	entries := make([]Entry, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *routetree.Route:
			entries = append(entries, Entry{
				Kind:     KindRoute,
				Pattern:  n.Pattern,
				Name:     n.Name,
				Redirect: n.Redirect,
				NotFound: n.NotFound,
			})
		case *routetree.Gate:
			entries = append(entries, Entry{
				Kind:     KindGate,
				Fallback: n.Fallback,
				Children: exportNodes(n.Children),
			})
		case *routetree.Group:
			entries = append(entries, Entry{
				Kind:     KindGroup,
				Name:     n.Name,
				Children: exportNodes(n.Children),
			})
		}
	}
	return entries
}

// Encode renders the manifest as indented JSON.
func (m *Manifest) Encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Decode parses a manifest and checks its format version.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("manifest: version %d not supported (want %d)", m.Version, Version)
	}
	return &m, nil
}

// Load reads a manifest file from disk.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Tree rebuilds a route tree from the manifest. The rebuilt tree carries
// no content or wrappers but resolves and builds URLs exactly like the
// tree the manifest was exported from, so tooling can answer "which route
// matches this path" without the application code.
func (m *Manifest) Tree() (*routetree.Tree, error) {
	nodes, err := entriesToNodes(m.Entries)
	if err != nil {
		return nil, err
	}
	return routetree.New(nodes...)
}

func entriesToNodes(entries []Entry) ([]routetree.Node, error) {
	nodes := make([]routetree.Node, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case KindRoute:
			nodes = append(nodes, &routetree.Route{
				Pattern:  e.Pattern,
				Name:     e.Name,
				Redirect: e.Redirect,
				NotFound: e.NotFound,
			})
		case KindGate:
			children, err := entriesToNodes(e.Children)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &routetree.Gate{
				Fallback: e.Fallback,
				Children: children,
			})
		case KindGroup:
			children, err := entriesToNodes(e.Children)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &routetree.Group{
				Name:     e.Name,
				Children: children,
			})
		default:
			return nil, fmt.Errorf("manifest: unknown entry kind %q", e.Kind)
		}
	}
	return nodes, nil
}

// Validate rebuilds the tree and reports every declaration problem the
// compiler finds, or the first structural problem in the manifest itself.
func (m *Manifest) Validate() error {
	_, err := m.Tree()
	return err
}

// Routes returns the number of route entries, counting nested ones.
func (m *Manifest) Routes() int {
	return countRoutes(m.Entries)
}

func countRoutes(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Kind == KindRoute {
			n++
		}
		n += countRoutes(e.Children)
	}
	return n
}
