// Package groups tracks layout wrapper lifecycles across navigations.
// Wrapper chains are compared positionally: the longest shared prefix of
// the previous and next chains survives, everything past the divergence
// point in the old chain is torn down, and the new chain's remainder
// mounts fresh. Comparison is by identity, so two decl-site-distinct
// wrappers with identical content still remount.
package groups

// Transition is the outcome of diffing two wrapper chains.
type Transition[T comparable] struct {
	// Keep holds the shared prefix, outermost first. These instances
	// survive the navigation untouched.
	Keep []T

	// TearDown holds the abandoned suffix of the previous chain,
	// outermost first. Callers typically destroy it innermost first.
	TearDown []T

	// MountNew holds the incoming suffix of the next chain, outermost
	// first, in mount order.
	MountNew []T
}

// Diff compares the previous and next wrapper chains.
// Keep+TearDown reassembles prev; Keep+MountNew reassembles next.
func Diff[T comparable](prev, next []T) Transition[T] {
	shared := 0
	for shared < len(prev) && shared < len(next) && prev[shared] == next[shared] {
		shared++
	}
	return Transition[T]{
		Keep:     next[:shared],
		TearDown: prev[shared:],
		MountNew: next[shared:],
	}
}

// Unchanged reports whether the transition leaves every wrapper in place.
func (tr Transition[T]) Unchanged() bool {
	return len(tr.TearDown) == 0 && len(tr.MountNew) == 0
}
