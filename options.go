package wayfind

import (
	"github.com/wayfind-dev/wayfind/pkg/params"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Params are extra query parameters to append to the target.
	Params params.Bag
}

// NavigateOption is a functional option for Navigate and NavigateTo.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithParams appends the bag's scalar values as query parameters.
func WithParams(bag params.Bag) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = bag
	}
}

func buildNavigateOptions(opts []NavigateOption) NavigateOptions {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
