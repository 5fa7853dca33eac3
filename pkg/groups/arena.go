package groups

// Arena owns the live wrapper instances, keyed by wrapper identity. Mount
// is idempotent: remounting a live key returns the existing instance, so a
// kept wrapper keeps its state. Unmount disposes the instance for good.
type Arena[K comparable, V any] struct {
	create  func(K) V
	dispose func(K, V)
	live    map[K]V
}

// NewArena builds an arena around an instance factory and an optional
// dispose hook invoked on unmount.
func NewArena[K comparable, V any](create func(K) V, dispose func(K, V)) *Arena[K, V] {
	return &Arena[K, V]{
		create:  create,
		dispose: dispose,
		live:    make(map[K]V),
	}
}

// Mount returns the live instance for key, creating it on first use.
func (a *Arena[K, V]) Mount(key K) V {
	if inst, ok := a.live[key]; ok {
		return inst
	}
	inst := a.create(key)
	a.live[key] = inst
	return inst
}

// Unmount disposes and forgets the instance under key, if any.
func (a *Arena[K, V]) Unmount(key K) {
	inst, ok := a.live[key]
	if !ok {
		return
	}
	delete(a.live, key)
	if a.dispose != nil {
		a.dispose(key, inst)
	}
}

// Lookup returns the live instance under key without creating one.
func (a *Arena[K, V]) Lookup(key K) (V, bool) {
	inst, ok := a.live[key]
	return inst, ok
}

// Size returns the number of live instances.
func (a *Arena[K, V]) Size() int { return len(a.live) }

// Clear unmounts every live instance.
func (a *Arena[K, V]) Clear() {
	for key := range a.live {
		a.Unmount(key)
	}
}
