// Package shell serves a single-page application shell for direct hits.
//
// A browser arriving at /projects/42 has no client router yet, so the
// server must answer from the route table alone. Handler resolves the
// request path against a built tree and responds the way the client
// router would settle:
//
//   - redirect routes are followed to their settled location and
//     answered with 302, residual query carried along
//   - unmatched paths get 404 with the shell document, so the booted
//     client can show its own not-found page at the right URL
//   - everything else gets 200 with the shell document
//
// Gates are not evaluated here: auth state lives in the client session,
// so gated routes serve the shell and the client router gates after
// boot.
package shell

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wayfind-dev/wayfind/pkg/routepath"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

const defaultDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>wayfind</title>
</head>
<body>
<div id="app"></div>
</body>
</html>
`

const defaultMaxRedirectHops = 10

// Handler answers direct hits for a route tree. Create one with New;
// the zero value is not usable.
type Handler struct {
	tree     *routetree.Tree
	log      *slog.Logger
	html     string
	script   string
	maxHops  int
	document []byte
}

// Option configures a Handler.
type Option func(*Handler)

// WithHTML replaces the built-in shell document.
func WithHTML(html string) Option {
	return func(h *Handler) { h.html = html }
}

// WithClientScript injects a script into the shell document, before
// </body> when present and appended otherwise. Pass
// history.ClientScript to wire served pages to a history bridge.
func WithClientScript(js string) Option {
	return func(h *Handler) { h.script = js }
}

// WithMaxRedirectHops bounds how many redirect routes one request may
// traverse before the handler gives up.
func WithMaxRedirectHops(n int) Option {
	return func(h *Handler) { h.maxHops = n }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// New builds a Handler serving the given tree.
func New(tree *routetree.Tree, opts ...Option) *Handler {
	h := &Handler{
		tree:    tree,
		log:     slog.Default(),
		html:    defaultDocument,
		maxHops: defaultMaxRedirectHops,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.document = []byte(injectScript(h.html, h.script))
	return h
}

// injectScript places a script tag before </body>, or at the end when
// the document has no body close tag.
func injectScript(html, js string) string {
	if js == "" {
		return html
	}
	tag := "<script>" + js + "</script>"
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		return html[:i] + tag + "\n" + html[i:]
	}
	return html + tag + "\n"
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	location := r.URL.Path
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}

	res, err := routepath.Clean(location)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	if res.Changed {
		// Send the browser to the canonical form, the same correction
		// the client router applies with a history replace.
		http.Redirect(w, r, rejoin(res.Path, res.Query), http.StatusMovedPermanently)
		return
	}

	match, settled, err := h.settle(rejoin(res.Path, res.Query))
	if err != nil {
		h.log.Error("shell: resolving request", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if settled != "" {
		http.Redirect(w, r, settled, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if match.Matched() {
		w.Header().Set("X-Wayfind-Route", match.Route.Route.Pattern)
	}

	status := http.StatusOK
	if match.NotFound {
		status = http.StatusNotFound
	}
	w.WriteHeader(status)

	if r.Method == http.MethodGet {
		w.Write(h.document)
	}
}

// settle resolves a location, following redirect routes until a
// non-redirect answer. It returns the settled location when any
// redirect was traversed, and "" when the first resolution already
// stood.
func (h *Handler) settle(location string) (*routetree.Match, string, error) {
	match := h.tree.Resolve(location)

	hops := 0
	for match.IsRedirect() {
		hops++
		if hops > h.maxHops {
			return nil, "", fmt.Errorf("redirect limit exceeded: %d hops from %q", hops, location)
		}
		target, err := match.ResolveRedirect()
		if err != nil {
			return nil, "", err
		}
		location = target
		match = h.tree.Resolve(location)
	}

	if hops > 0 {
		return match, location, nil
	}
	return match, "", nil
}

func rejoin(path, query string) string {
	if query != "" {
		return path + "?" + query
	}
	return path
}
