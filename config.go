package wayfind

import (
	"log/slog"

	"github.com/wayfind-dev/wayfind/pkg/authgate"
	"github.com/wayfind-dev/wayfind/pkg/history"
)

// Config carries the collaborators a Router needs. The zero value is
// usable: history falls back to an in-memory adapter rooted at "/", auth
// to a provider that reports every visitor as unauthenticated.
type Config struct {
	// History is the address-bar adapter the router follows and writes
	// back to. Defaults to history.NewMemory("/").
	History history.History

	// Auth answers gate checks. A provider that also implements
	// authgate.Notifier is subscribed on Start, so auth changes
	// re-evaluate the current route automatically. Defaults to a static
	// unauthenticated provider.
	Auth authgate.Provider

	// Logger receives pipeline diagnostics. If nil, slog.Default() is
	// used.
	Logger *slog.Logger

	// MaxRedirectHops bounds redirect chains before a navigation fails
	// with ErrRedirectLoop. Default: 10.
	MaxRedirectHops int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		History:         history.NewMemory("/"),
		Auth:            authgate.Static(false),
		Logger:          slog.Default(),
		MaxRedirectHops: 10,
	}
}

func (c Config) withDefaults() Config {
	if c.History == nil {
		c.History = history.NewMemory("/")
	}
	if c.Auth == nil {
		c.Auth = authgate.Static(false)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxRedirectHops <= 0 {
		c.MaxRedirectHops = 10
	}
	return c
}
