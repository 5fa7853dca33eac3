// Package navtest is a test harness for route trees: it drives a Router
// over in-memory history, flips auth state on demand, and asserts on the
// views the router publishes.
//
//	h := navtest.New(t,
//	    &wayfind.Route{Pattern: "/", Name: "home", Content: "home"},
//	    &wayfind.Route{Pattern: "/projects/{id}", Name: "project", Content: "project"},
//	)
//	h.Visit("/projects/7").
//	    ExpectRoute("project").
//	    ExpectParam("id", "7")
package navtest

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/wayfind-dev/wayfind"
	"github.com/wayfind-dev/wayfind/pkg/authgate"
	"github.com/wayfind-dev/wayfind/pkg/history"
)

// Harness owns a started Router wired to in-memory history and a
// settable auth provider. Navigation is synchronous, so every call
// returns with the resulting view already published.
type Harness struct {
	// Router is the router under test, exposed for calls the harness
	// has no shorthand for.
	Router *wayfind.Router

	t    *testing.T
	hist *history.Memory
	auth *stubAuth

	mu    sync.Mutex
	views []*wayfind.View
}

// New builds and starts a router for the declarations. The visitor
// begins unauthenticated at "/". Declaration problems fail the test
// immediately. The router is stopped when the test finishes.
func New(t *testing.T, nodes ...wayfind.Node) *Harness {
	t.Helper()

	h := &Harness{
		t:    t,
		hist: history.NewMemory("/"),
		auth: &stubAuth{},
	}

	r, err := wayfind.New(wayfind.Config{
		History: h.hist,
		Auth:    h.auth,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nodes...)
	if err != nil {
		t.Fatalf("navtest: building router: %v", err)
	}
	h.Router = r

	r.Subscribe(func(v *wayfind.View) {
		h.mu.Lock()
		h.views = append(h.views, v)
		h.mu.Unlock()
	})
	if err := r.Start(); err != nil {
		t.Fatalf("navtest: starting router: %v", err)
	}
	t.Cleanup(r.Stop)

	return h
}

// Visit navigates to a location ("/path" or "/path?query").
//
// Example:
//
//	h.Visit("/projects/7?tab=activity")
func (h *Harness) Visit(location string) *Harness {
	h.t.Helper()
	if err := h.Router.Navigate(location); err != nil {
		h.t.Fatalf("navtest: Visit(%q): %v", location, err)
	}
	return h
}

// Goto navigates to a named route, building its URL from the bag.
//
// Example:
//
//	h.Goto("project", wayfind.Bag{"id": 7})
func (h *Harness) Goto(name string, bag wayfind.Bag) *Harness {
	h.t.Helper()
	if err := h.Router.NavigateTo(name, bag); err != nil {
		h.t.Fatalf("navtest: Goto(%q): %v", name, err)
	}
	return h
}

// Back moves one history entry back, like the browser button.
func (h *Harness) Back() *Harness {
	h.hist.Back()
	return h
}

// Forward moves one history entry forward.
func (h *Harness) Forward() *Harness {
	h.hist.Forward()
	return h
}

// Login marks the visitor authenticated. Gated views re-evaluate
// immediately.
func (h *Harness) Login() *Harness {
	h.auth.set(authgate.Snapshot{Authenticated: true})
	return h
}

// Logout marks the visitor unauthenticated.
func (h *Harness) Logout() *Harness {
	h.auth.set(authgate.Snapshot{})
	return h
}

// AuthPending puts the auth provider in the loading state, holding gated
// routes at their placeholder.
func (h *Harness) AuthPending() *Harness {
	h.auth.set(authgate.Snapshot{Loading: true})
	return h
}

// View returns the most recently published view. Fails the test if
// nothing has been published.
func (h *Harness) View() *wayfind.View {
	h.t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.views) == 0 {
		h.t.Fatal("navtest: no view published yet")
	}
	return h.views[len(h.views)-1]
}

// Views returns every view published so far, oldest first.
func (h *Harness) Views() []*wayfind.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*wayfind.View, len(h.views))
	copy(out, h.views)
	return out
}

// Location returns the current history location, including any redirect
// the last navigation settled on.
func (h *Harness) Location() string {
	return h.hist.Location().Full()
}

// ExpectRoute asserts the current view matched the named route.
//
// Example:
//
//	h.Visit("/projects/7").ExpectRoute("project")
func (h *Harness) ExpectRoute(name string) *Harness {
	h.t.Helper()
	if got := h.View().RouteName(); got != name {
		h.t.Errorf("route = %q, want %q", got, name)
	}
	return h
}

// ExpectParam asserts a merged parameter's string form.
func (h *Harness) ExpectParam(key, want string) *Harness {
	h.t.Helper()
	if got := h.View().Params.String(key); got != want {
		h.t.Errorf("param %q = %q, want %q", key, got, want)
	}
	return h
}

// ExpectLocation asserts where the navigation settled.
func (h *Harness) ExpectLocation(want string) *Harness {
	h.t.Helper()
	if got := h.Location(); got != want {
		h.t.Errorf("location = %q, want %q", got, want)
	}
	return h
}

// ExpectNotFound asserts the current view is the not-found fallback.
func (h *Harness) ExpectNotFound() *Harness {
	h.t.Helper()
	if v := h.View(); !v.NotFound {
		h.t.Errorf("view for %s is not the not-found fallback", v.Location.Full())
	}
	return h
}

// ExpectGate asserts the current view's gate status.
//
// Example:
//
//	h.AuthPending()
//	h.Visit("/account").ExpectGate(wayfind.GateLoading)
func (h *Harness) ExpectGate(want wayfind.GateStatus) *Harness {
	h.t.Helper()
	if got := h.View().Gate; got != want {
		h.t.Errorf("gate = %v, want %v", got, want)
	}
	return h
}

// stubAuth is a settable provider that notifies the router on change.
type stubAuth struct {
	mu   sync.Mutex
	snap authgate.Snapshot
	subs []func()
}

func (s *stubAuth) Snapshot() authgate.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *stubAuth) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	i := len(s.subs) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.subs[i] = nil
		s.mu.Unlock()
	}
}

func (s *stubAuth) set(snap authgate.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		if fn != nil {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
