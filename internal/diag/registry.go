package diag

// Template defines a registered diagnostic code.
type Template struct {
	Category Category
	Message  string
	Detail   string
	Hint     string
	Example  string
	DocURL   string
}

// registry maps diagnostic codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Declaration problems (W001-W019)
	// ============================================

	"W001": {
		Category: CategoryDeclaration,
		Message:  "Duplicate route name",
		Detail:   "Route names key the URL builder, so each name may be declared once per tree.",
		Hint:     "Rename one of the routes, or drop the Name from the one you never build URLs for.",
		DocURL:   "https://wayfind.dev/docs/errors/W001",
	},
	"W002": {
		Category: CategoryDeclaration,
		Message:  "Invalid route pattern",
		Detail:   "Patterns are absolute paths whose segments are literals, {name} captures, a trailing {name?} optional capture, or a trailing {name...} catch-all.",
		Hint:     "Check for an unterminated capture, an empty capture name, or a capture declared before the final segment.",
		Example:  `&wayfind.Route{Pattern: "/projects/{id}", Name: "project", Content: page}`,
		DocURL:   "https://wayfind.dev/docs/errors/W002",
	},
	"W003": {
		Category: CategoryDeclaration,
		Message:  "Gate fallback is not a named route",
		Detail:   "Every gate names the route unauthenticated visitors are sent to. The name must belong to a route declared in the same tree.",
		Hint:     "Declare the fallback route and give it a Name.",
		Example: `&wayfind.Gate{Fallback: "login", Children: []wayfind.Node{...}},
&wayfind.Route{Pattern: "/login", Name: "login", Content: login}`,
		DocURL: "https://wayfind.dev/docs/errors/W003",
	},
	"W004": {
		Category: CategoryDeclaration,
		Message:  "Gate fallback is behind its own gate",
		Detail:   "An unauthenticated visitor sent to this fallback would be gated again, looping forever.",
		Hint:     "Move the fallback route outside the gate's children.",
		DocURL:   "https://wayfind.dev/docs/errors/W004",
	},
	"W005": {
		Category: CategoryDeclaration,
		Message:  "Gate fallback requires path parameters",
		Detail:   "The gate redirects with no parameter values on hand, so the fallback's URL must be buildable from its name alone.",
		Hint:     "Point the gate at a route whose pattern has no required captures.",
		DocURL:   "https://wayfind.dev/docs/errors/W005",
	},
	"W006": {
		Category: CategoryDeclaration,
		Message:  "Multiple not-found routes",
		Detail:   "One route per tree may carry NotFound; it answers every path no pattern matches.",
		Hint:     "Keep a single NotFound route and delete the others.",
		DocURL:   "https://wayfind.dev/docs/errors/W006",
	},
	"W007": {
		Category: CategoryDeclaration,
		Message:  "Route declares both content and a redirect",
		Detail:   "A route either renders content or forwards to another location, never both.",
		Hint:     "Split the declaration into a redirect route and a separate content route.",
		DocURL:   "https://wayfind.dev/docs/errors/W007",
	},
	"W008": {
		Category: CategoryDeclaration,
		Message:  "Gate has no fallback",
		Detail:   "A gate without a fallback route name has nowhere to send unauthenticated visitors.",
		Hint:     "Set Fallback to the name of your sign-in route.",
		DocURL:   "https://wayfind.dev/docs/errors/W008",
	},
	"W009": {
		Category: CategoryDeclaration,
		Message:  "Redirect references a parameter the pattern never captures",
		Detail:   "Redirect templates are filled from the matched route's own captures. A name the pattern does not capture has no value at match time.",
		Hint:     "Use only capture names that appear in the route's Pattern.",
		Example:  `&wayfind.Route{Pattern: "/legacy/{id}", Redirect: "/projects/{id}"}`,
		DocURL:   "https://wayfind.dev/docs/errors/W009",
	},

	// ============================================
	// Manifest problems (W020-W039)
	// ============================================

	"W020": {
		Category: CategoryManifest,
		Message:  "Unsupported manifest version",
		Detail:   "The manifest was exported by a newer or older wayfind than this binary understands.",
		Hint:     "Re-export the manifest with the wayfind version this tool ships with.",
		DocURL:   "https://wayfind.dev/docs/errors/W020",
	},
	"W021": {
		Category: CategoryManifest,
		Message:  "Unknown manifest entry kind",
		Detail:   "Manifest entries are route, gate, or group. Anything else is a corrupted or hand-edited file.",
		Hint:     "Re-export the manifest instead of editing it by hand.",
		DocURL:   "https://wayfind.dev/docs/errors/W021",
	},
	"W022": {
		Category: CategoryManifest,
		Message:  "Manifest is not valid JSON",
		Detail:   "The file could not be decoded as a wayfind route manifest.",
		Hint:     "Check the file is the output of a manifest export, not a different JSON document.",
		DocURL:   "https://wayfind.dev/docs/errors/W022",
	},
	"W023": {
		Category: CategoryManifest,
		Message:  "Manifest file not found",
		Detail:   "No route manifest exists at the given path.",
		Hint:     "Export one from your route declarations, or pass --manifest with the right path.",
		DocURL:   "https://wayfind.dev/docs/errors/W023",
	},

	// ============================================
	// Usage problems (W040-W059)
	// ============================================

	"W040": {
		Category: CategoryUsage,
		Message:  "Not a wayfind project",
		Detail:   "No wayfind.json was found in the working directory.",
		Hint:     "Run 'wayfind init' to create one, or pass explicit flags.",
		DocURL:   "https://wayfind.dev/docs/errors/W040",
	},
	"W041": {
		Category: CategoryUsage,
		Message:  "Invalid wayfind.json",
		Detail:   "The project configuration file is malformed.",
		Hint:     "Check that wayfind.json is valid JSON.",
		DocURL:   "https://wayfind.dev/docs/errors/W041",
	},
}

// Codes returns every registered diagnostic code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// Lookup returns the registered template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
