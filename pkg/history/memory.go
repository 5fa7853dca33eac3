package history

import (
	"sort"
	"sync"
)

// Memory is an in-process history with a full back/forward stack. It is
// the adapter used by tests, server-side resolution, and headless tools.
type Memory struct {
	mu      sync.RWMutex
	stack   []Location
	index   int
	subs    map[int]func(Location)
	nextSub int
}

var _ History = (*Memory)(nil)

// NewMemory creates a memory history positioned at initial ("/" when
// empty).
func NewMemory(initial string) *Memory {
	if initial == "" {
		initial = "/"
	}
	return &Memory{
		stack: []Location{Parse(initial)},
		subs:  make(map[int]func(Location)),
	}
}

// Navigate pushes a new entry, discarding any forward entries.
func (m *Memory) Navigate(location string) {
	loc := Parse(location)
	m.mu.Lock()
	m.stack = append(m.stack[:m.index+1], loc)
	m.index = len(m.stack) - 1
	m.mu.Unlock()
	m.notify(loc)
}

// Replace swaps the current entry in place.
func (m *Memory) Replace(location string) {
	loc := Parse(location)
	m.mu.Lock()
	m.stack[m.index] = loc
	m.mu.Unlock()
	m.notify(loc)
}

// Back moves one entry towards the past, if there is one.
func (m *Memory) Back() {
	m.mu.Lock()
	if m.index == 0 {
		m.mu.Unlock()
		return
	}
	m.index--
	loc := m.stack[m.index]
	m.mu.Unlock()
	m.notify(loc)
}

// Forward moves one entry towards the future, if there is one.
func (m *Memory) Forward() {
	m.mu.Lock()
	if m.index >= len(m.stack)-1 {
		m.mu.Unlock()
		return
	}
	m.index++
	loc := m.stack[m.index]
	m.mu.Unlock()
	m.notify(loc)
}

// Location returns the current entry.
func (m *Memory) Location() Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stack[m.index]
}

// Len returns the depth of the history stack.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stack)
}

// Subscribe registers a listener for entry changes.
func (m *Memory) Subscribe(fn func(Location)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// notify calls subscribers in subscription order, outside the lock so a
// handler may navigate again without deadlocking.
func (m *Memory) notify(loc Location) {
	m.mu.RLock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Location), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(loc)
	}
}
