package routetree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStaleRegistry is returned by builders of a registry that has been
// retired by a tree rebuild. Callers must re-fetch the live registry.
var ErrStaleRegistry = errors.New("routetree: registry retired by rebuild")

// PatternError reports a path template that cannot be compiled.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("routetree: invalid pattern %q: %s", e.Pattern, e.Reason)
}

// MissingParamError reports a URL build that lacked a required capture.
type MissingParamError struct {
	Route string // route name when known
	Param string
}

func (e *MissingParamError) Error() string {
	if e.Route != "" {
		return fmt.Sprintf("routetree: building %q: missing required parameter %q", e.Route, e.Param)
	}
	return fmt.Sprintf("routetree: missing required parameter %q", e.Param)
}

// UnresolvedParamError reports a redirect template that references a
// capture name absent from the matched parameters. This is a declaration
// bug: the redirect template must only use names its own pattern captures
// or query keys guaranteed to be present.
type UnresolvedParamError struct {
	Route    string // route name or pattern
	Template string
	Param    string
}

func (e *UnresolvedParamError) Error() string {
	return fmt.Sprintf("routetree: redirect %q on route %q: no value for parameter %q", e.Template, e.Route, e.Param)
}

// MultiError collects every declaration problem found while building a
// tree, so a broken tree reports all of its defects at once.
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route declaration errors:", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString("\n  - " + err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *MultiError) Unwrap() []error { return e.Errors }
