package routetree

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/wayfind-dev/wayfind/pkg/params"
)

// Builder produces a concrete URL for one named route. Required captures
// come from the bag; every other bag key is appended as a query parameter.
type Builder func(bag params.Bag) (string, error)

// Registry holds the URL builders of a tree's named routes. A registry is
// replaced wholesale when its tree is rebuilt; the old one is retired and
// its builders start returning ErrStaleRegistry.
type Registry struct {
	builders map[string]Builder
	retired  atomic.Bool
}

// NewRegistry builds the registry for a tree.
func NewRegistry(t *Tree) *Registry {
	reg := &Registry{builders: make(map[string]Builder, len(t.byName))}
	for name, cr := range t.byName {
		name, cr := name, cr
		reg.builders[name] = func(bag params.Bag) (string, error) {
			if reg.retired.Load() {
				return "", ErrStaleRegistry
			}
			return buildURL(name, cr, bag)
		}
	}
	return reg
}

func buildURL(name string, cr *CompiledRoute, bag params.Bag) (string, error) {
	path, err := cr.Pattern.Fill(bag)
	if err != nil {
		var missing *MissingParamError
		if errors.As(err, &missing) {
			missing.Route = name
		}
		return "", err
	}

	query, err := params.Serialize(bag, cr.Pattern.ParamNames()...)
	if err != nil {
		return "", err
	}
	if query != "" {
		path += "?" + query
	}
	return path, nil
}

// URL builds the URL for a named route.
func (r *Registry) URL(name string, bag params.Bag) (string, error) {
	builder, ok := r.builders[name]
	if !ok {
		return "", fmt.Errorf("routetree: no route named %q", name)
	}
	return builder(bag)
}

// Builder returns the builder registered under name.
func (r *Registry) Builder(name string) (Builder, bool) {
	builder, ok := r.builders[name]
	return builder, ok
}

// Names returns the registered route names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.builders) }

// Retire marks the registry stale. Every builder handed out from it,
// including closures callers captured earlier, fails from now on.
func (r *Registry) Retire() { r.retired.Store(true) }

// Retired reports whether the registry has been replaced.
func (r *Registry) Retired() bool { return r.retired.Load() }
