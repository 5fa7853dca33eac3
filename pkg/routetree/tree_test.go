package routetree

import (
	"errors"
	"strings"
	"testing"
)

// testTree builds the declaration shape used across this package's tests:
// top-level pages, a layout group, a gated subtree, and a not-found route.
func testTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := New(
		&Route{Pattern: "/", Name: "home", Content: "home-page"},
		&Route{Pattern: "/param-test/{value}", Name: "param-test", Content: "param-page"},
		&Route{Pattern: "/param-test/static", Content: "static-page"},
		&Route{Pattern: "/redirect2/{value}", Redirect: "/param-test/{value}"},
		&Group{Name: "main", Wrapper: "main-layout", Children: []Node{
			&Route{Pattern: "/settings", Name: "settings", Content: "settings-page"},
			&Route{Pattern: "/projects/{id}", Name: "project", Content: "project-page"},
		}},
		&Gate{Fallback: "login", Children: []Node{
			&Route{Pattern: "/private/{id}", Name: "private", Content: "private-page",
				WhileLoading: func() any { return "spinner" }},
		}},
		&Route{Pattern: "/login", Name: "login", Content: "login-page"},
		&Route{Pattern: "/files/{rest...}", Name: "files", Content: "files-page"},
		&Route{Pattern: "/404", NotFound: true, Content: "not-found-page"},
	)
	if err != nil {
		t.Fatalf("New() unexpected error = %v", err)
	}
	return tree
}

func TestNewFlattensInDeclarationOrder(t *testing.T) {
	tree := testTree(t)

	want := []string{
		"/", "/param-test/{value}", "/param-test/static", "/redirect2/{value}",
		"/settings", "/projects/{id}", "/private/{id}", "/login",
		"/files/{rest...}", "/404",
	}
	routes := tree.Routes()
	if len(routes) != len(want) {
		t.Fatalf("len(Routes()) = %d, want %d", len(routes), len(want))
	}
	for i, cr := range routes {
		if cr.Route.Pattern != want[i] {
			t.Errorf("Routes()[%d] = %q, want %q", i, cr.Route.Pattern, want[i])
		}
	}
}

func TestNewChains(t *testing.T) {
	tree := testTree(t)

	settings, ok := tree.Lookup("settings")
	if !ok {
		t.Fatal("Lookup(settings) not found")
	}
	project, _ := tree.Lookup("project")
	home, _ := tree.Lookup("home")
	private, _ := tree.Lookup("private")

	if len(settings.Groups) != 1 || settings.Groups[0].Name != "main" {
		t.Fatalf("settings.Groups = %v, want one group named main", settings.Groups)
	}
	if settings.Groups[0] != project.Groups[0] {
		t.Error("settings and project should share the same GroupNode identity")
	}
	if len(home.Groups) != 0 {
		t.Errorf("home.Groups = %v, want empty", home.Groups)
	}

	if private.Gate() == nil || private.Gate().Fallback != "login" {
		t.Errorf("private.Gate() = %v, want gate with fallback login", private.Gate())
	}
	if settings.Gate() != nil {
		t.Error("settings should be ungated")
	}
}

func TestNewNestedGroupIdentity(t *testing.T) {
	tree, err := New(
		&Group{Name: "outer", Wrapper: "o", Children: []Node{
			&Route{Pattern: "/a", Content: "a"},
			&Group{Name: "inner", Wrapper: "i", Children: []Node{
				&Route{Pattern: "/a/b", Content: "b"},
			}},
		}},
		&Group{Name: "other", Wrapper: "o", Children: []Node{
			&Route{Pattern: "/c", Content: "c"},
		}},
	)
	if err != nil {
		t.Fatalf("New() unexpected error = %v", err)
	}

	a := tree.Routes()[0]
	b := tree.Routes()[1]
	c := tree.Routes()[2]

	if len(a.Groups) != 1 || len(b.Groups) != 2 {
		t.Fatalf("chain lengths = %d, %d, want 1, 2", len(a.Groups), len(b.Groups))
	}
	if a.Groups[0] != b.Groups[0] {
		t.Error("outer group should be the same node for both children")
	}
	// Same wrapper content, different declaration site.
	if a.Groups[0] == c.Groups[0] {
		t.Error("distinct group declarations must have distinct identity")
	}
	if b.Groups[1].Name != "inner" {
		t.Errorf("inner group name = %q, want inner", b.Groups[1].Name)
	}
}

func TestNewCollectsAllErrors(t *testing.T) {
	_, err := New(
		&Route{Pattern: "no-slash", Content: "x"},
		&Route{Pattern: "/dup/{x}/{x}", Content: "x"},
		&Route{Pattern: "/a", Name: "twice", Content: "x"},
		&Route{Pattern: "/b", Name: "twice", Content: "x"},
		&Route{Pattern: "/nf1", NotFound: true, Content: "x"},
		&Route{Pattern: "/nf2", NotFound: true, Content: "x"},
		&Route{Pattern: "/both", Redirect: "/a", Content: "x"},
	)
	if err == nil {
		t.Fatal("New() expected error")
	}

	var multi *MultiError
	if !errors.As(err, &multi) {
		t.Fatalf("New() error = %T, want *MultiError", err)
	}
	if len(multi.Errors) != 5 {
		t.Errorf("len(MultiError.Errors) = %d, want 5:\n%v", len(multi.Errors), err)
	}

	var perr *PatternError
	if !errors.As(err, &perr) {
		t.Error("MultiError should expose PatternError through errors.As")
	}
	for _, want := range []string{"duplicate route name", "multiple not-found", "both content and a redirect"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error text missing %q:\n%v", want, err)
		}
	}
}

func TestNewGateValidation(t *testing.T) {
	t.Run("unknown fallback", func(t *testing.T) {
		_, err := New(
			&Gate{Fallback: "nowhere", Children: []Node{
				&Route{Pattern: "/p", Content: "x"},
			}},
		)
		if err == nil || !strings.Contains(err.Error(), `fallback "nowhere" does not name a route`) {
			t.Errorf("New() error = %v, want unknown fallback", err)
		}
	})

	t.Run("empty fallback", func(t *testing.T) {
		_, err := New(
			&Gate{Children: []Node{&Route{Pattern: "/p", Content: "x"}}},
			&Route{Pattern: "/login", Name: "login", Content: "x"},
		)
		if err == nil || !strings.Contains(err.Error(), "no fallback route name") {
			t.Errorf("New() error = %v, want empty fallback", err)
		}
	})

	t.Run("fallback behind its own gate", func(t *testing.T) {
		_, err := New(
			&Gate{Fallback: "login", Children: []Node{
				&Route{Pattern: "/login", Name: "login", Content: "x"},
			}},
		)
		if err == nil || !strings.Contains(err.Error(), "behind the gate") {
			t.Errorf("New() error = %v, want self-gated fallback", err)
		}
	})

	t.Run("fallback requiring parameters", func(t *testing.T) {
		_, err := New(
			&Gate{Fallback: "login", Children: []Node{
				&Route{Pattern: "/p", Content: "x"},
			}},
			&Route{Pattern: "/login/{tenant}", Name: "login", Content: "x"},
		)
		if err == nil || !strings.Contains(err.Error(), "requires path parameters") {
			t.Errorf("New() error = %v, want parameterized fallback", err)
		}
	})

	t.Run("fallback behind a different gate is allowed", func(t *testing.T) {
		_, err := New(
			&Gate{Fallback: "login", Children: []Node{
				&Route{Pattern: "/p", Content: "x"},
			}},
			&Gate{Fallback: "home", Children: []Node{
				&Route{Pattern: "/login", Name: "login", Content: "x"},
			}},
			&Route{Pattern: "/", Name: "home", Content: "x"},
		)
		if err != nil {
			t.Errorf("New() unexpected error = %v", err)
		}
	})
}

func TestTreeAccessors(t *testing.T) {
	tree := testTree(t)

	if tree.Len() != 10 {
		t.Errorf("Len() = %d, want 10", tree.Len())
	}
	if tree.NotFound() == nil || tree.NotFound().Route.Pattern != "/404" {
		t.Errorf("NotFound() = %v, want /404", tree.NotFound())
	}
	if _, ok := tree.Lookup("missing"); ok {
		t.Error("Lookup(missing) should not be found")
	}
	if got := len(tree.Decls()); got != 9 {
		t.Errorf("len(Decls()) = %d, want 9", got)
	}
	if !strings.Contains(tree.String(), "/param-test/{value}") {
		t.Errorf("String() = %q, want pattern list", tree.String())
	}

	redir := tree.Routes()[3]
	if !redir.IsRedirect() {
		t.Error("redirect route should report IsRedirect")
	}
	if redir.Name() != "/redirect2/{value}" {
		t.Errorf("unnamed route Name() = %q, want its pattern", redir.Name())
	}
}
