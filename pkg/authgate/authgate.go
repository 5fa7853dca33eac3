// Package authgate classifies authentication snapshots for route gating
// and implements the redirectTo round-trip that returns visitors to the
// page they originally asked for after signing in.
package authgate

import (
	"net/url"
	"strings"
)

// Snapshot is the instantaneous view of an auth provider. Loading means
// the provider has not finished determining the session; while loading,
// the Authenticated flag carries no meaning.
type Snapshot struct {
	Loading       bool
	Authenticated bool
}

// Provider supplies auth snapshots on demand. Implementations are queried
// on every gated resolution, never cached.
type Provider interface {
	Snapshot() Snapshot
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() Snapshot

func (f ProviderFunc) Snapshot() Snapshot { return f() }

// Notifier is implemented by providers that can announce state changes.
// Subscribers re-evaluate the current route when notified.
type Notifier interface {
	Subscribe(fn func()) (cancel func())
}

// Static returns a provider that is never loading and always reports the
// given authentication state.
func Static(authenticated bool) Provider {
	return ProviderFunc(func() Snapshot {
		return Snapshot{Authenticated: authenticated}
	})
}

// State is the gating decision derived from a snapshot.
type State int

const (
	// StateLoading holds the gated route back until the provider settles.
	StateLoading State = iota

	// StateUnauthenticated sends the visitor to the gate's fallback.
	StateUnauthenticated

	// StateAuthenticated lets the gated route render.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Classify maps a snapshot onto the three gate states. Loading dominates:
// whatever the Authenticated flag says, an unsettled provider is neither
// in nor out. Everything not loading and not authenticated is
// unauthenticated.
func Classify(s Snapshot) State {
	switch {
	case s.Loading:
		return StateLoading
	case s.Authenticated:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// RedirectParam is the query key carrying the originally requested
// location through the login flow.
const RedirectParam = "redirectTo"

// FallbackTarget builds the location unauthenticated visitors are sent
// to: the gate's fallback path with the original path and search appended
// under RedirectParam. The whole original location is percent-encoded as
// one opaque value, so an embedded "?" or "&" survives the trip (an
// already-encoded character is encoded again).
func FallbackTarget(fallbackPath, originalPath, originalSearch string) string {
	sep := "?"
	if strings.Contains(fallbackPath, "?") {
		sep = "&"
	}
	return fallbackPath + sep + RedirectParam + "=" + url.QueryEscape(originalPath+originalSearch)
}

// ReturnTo extracts and decodes the RedirectParam value from a raw query
// string. The second return is false when the key is absent or empty.
func ReturnTo(rawQuery string) (string, bool) {
	values, _ := url.ParseQuery(rawQuery)
	vals := values[RedirectParam]
	if len(vals) == 0 || vals[0] == "" {
		return "", false
	}
	return vals[0], true
}
