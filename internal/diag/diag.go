package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// Category groups diagnostics by where the problem lives.
type Category string

const (
	CategoryDeclaration Category = "declaration"
	CategoryManifest    Category = "manifest"
	CategoryUsage       Category = "usage"
)

// Diagnostic is one problem with enough context to fix it.
type Diagnostic struct {
	// Code is the registered identifier (e.g. "W003"). Empty for
	// problems no registered code covers.
	Code string

	// Category is where the problem lives.
	Category Category

	// Message is the registered one-line description.
	Message string

	// Subject is the raw error text naming the offending declaration.
	Subject string

	// Detail explains why the declaration is rejected.
	Detail string

	// Hint says how to fix it.
	Hint string

	// Example is a corrected declaration.
	Example string

	// DocURL links to the documentation page for this code.
	DocURL string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Code != "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Subject)
	}
	return d.Subject
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (d *Diagnostic) Unwrap() error {
	return d.Wrapped
}

// New creates a Diagnostic from a registered code. Unknown codes yield a
// bare diagnostic carrying only the code.
func New(code string) *Diagnostic {
	tpl, ok := registry[code]
	if !ok {
		return &Diagnostic{Code: code, Message: "Unknown problem"}
	}
	return &Diagnostic{
		Code:     code,
		Category: tpl.Category,
		Message:  tpl.Message,
		Detail:   tpl.Detail,
		Hint:     tpl.Hint,
		Example:  tpl.Example,
		DocURL:   tpl.DocURL,
	}
}

// Newf creates an uncoded diagnostic with a formatted subject.
func Newf(category Category, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Category: category,
		Subject:  fmt.Sprintf(format, args...),
	}
}

// WithSubject sets the raw error text naming the offending declaration.
func (d *Diagnostic) WithSubject(s string) *Diagnostic {
	d.Subject = s
	return d
}

// WithHint overrides the registered hint.
func (d *Diagnostic) WithHint(h string) *Diagnostic {
	d.Hint = h
	return d
}

// Wrap records the underlying error.
func (d *Diagnostic) Wrap(err error) *Diagnostic {
	d.Wrapped = err
	if d.Subject == "" {
		d.Subject = err.Error()
	}
	return d
}

// Classify maps one error onto a coded diagnostic. Errors the registry
// does not recognize come back uncoded, with the error text as subject.
func Classify(err error) *Diagnostic {
	if err == nil {
		return nil
	}
	if d, ok := err.(*Diagnostic); ok {
		return d
	}

	var pat *routetree.PatternError
	if errors.As(err, &pat) {
		return New("W002").WithSubject(err.Error()).Wrap(err)
	}
	var unresolved *routetree.UnresolvedParamError
	if errors.As(err, &unresolved) {
		return New("W009").WithSubject(err.Error()).Wrap(err)
	}

	msg := err.Error()
	for _, rule := range classifyRules {
		if strings.Contains(msg, rule.fragment) {
			return New(rule.code).WithSubject(msg).Wrap(err)
		}
	}
	return Newf(CategoryDeclaration, "%s", msg).Wrap(err)
}

// classifyRules match the build errors the route tree and manifest
// decoder produce by message fragment. Structured error types are
// handled before these run.
var classifyRules = []struct {
	fragment string
	code     string
}{
	{"duplicate route name", "W001"},
	{"does not name a route", "W003"},
	{"is itself behind the gate", "W004"},
	{"requires path parameters", "W005"},
	{"multiple not-found routes", "W006"},
	{"declares both content and a redirect", "W007"},
	{"gate has no fallback route name", "W008"},
	{"manifest: version", "W020"},
	{"unknown entry kind", "W021"},
	{"manifest: decode", "W022"},
}

// ClassifyAll flattens a tree-build error into one diagnostic per
// problem. A MultiError contributes each collected error; anything else
// contributes itself.
func ClassifyAll(err error) []*Diagnostic {
	if err == nil {
		return nil
	}
	var multi *routetree.MultiError
	if errors.As(err, &multi) {
		out := make([]*Diagnostic, 0, len(multi.Errors))
		for _, e := range multi.Errors {
			out = append(out, Classify(e))
		}
		return out
	}
	return []*Diagnostic{Classify(err)}
}
