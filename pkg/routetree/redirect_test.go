package routetree

import (
	"errors"
	"testing"
)

func TestResolveRedirect(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		name     string
		location string
		want     string
	}{
		{
			name:     "capture interpolated",
			location: "/redirect2/abc",
			want:     "/param-test/abc",
		},
		{
			name:     "value re-encoded in target",
			location: "/redirect2/a%20b",
			want:     "/param-test/a%20b",
		},
		{
			name:     "residual query preserved",
			location: "/redirect2/abc?a=1&b=2",
			want:     "/param-test/abc?a=1&b=2",
		},
		{
			name:     "consumed query key dropped, rest kept",
			location: "/redirect2/abc?value=q&keep=1",
			want:     "/param-test/abc?keep=1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := tree.Resolve(tc.location)
			if !m.IsRedirect() {
				t.Fatalf("Resolve(%q) is not a redirect", tc.location)
			}
			got, err := m.ResolveRedirect()
			if err != nil {
				t.Fatalf("ResolveRedirect() unexpected error = %v", err)
			}
			if got != tc.want {
				t.Errorf("ResolveRedirect() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveRedirectChainsThroughResolve(t *testing.T) {
	tree := testTree(t)

	m := tree.Resolve("/redirect2/xyz?a=1")
	target, err := m.ResolveRedirect()
	if err != nil {
		t.Fatalf("ResolveRedirect() unexpected error = %v", err)
	}

	final := tree.Resolve(target)
	if final.RouteName() != "param-test" {
		t.Fatalf("Resolve(%q) route = %q, want param-test", target, final.RouteName())
	}
	if final.Params.String("value") != "xyz" {
		t.Errorf("params[value] = %q, want xyz", final.Params.String("value"))
	}
	if final.Params.String("a") != "1" {
		t.Errorf("params[a] = %q, want 1", final.Params.String("a"))
	}
}

func TestResolveRedirectQueryFedTemplate(t *testing.T) {
	// The template may consume a query key; it is then dropped from the
	// re-appended residue.
	tree, err := New(
		&Route{Pattern: "/go", Redirect: "/docs/{page}"},
		&Route{Pattern: "/docs/{page}", Name: "docs", Content: "d"},
	)
	if err != nil {
		t.Fatalf("New() unexpected error = %v", err)
	}

	m := tree.Resolve("/go?page=intro&ref=nav")
	got, err := m.ResolveRedirect()
	if err != nil {
		t.Fatalf("ResolveRedirect() unexpected error = %v", err)
	}
	if got != "/docs/intro?ref=nav" {
		t.Errorf("ResolveRedirect() = %q, want /docs/intro?ref=nav", got)
	}
}

func TestResolveRedirectErrors(t *testing.T) {
	t.Run("unresolved template name", func(t *testing.T) {
		tree, err := New(
			&Route{Pattern: "/old/{id}", Redirect: "/new/{missing}"},
		)
		if err != nil {
			t.Fatalf("New() unexpected error = %v", err)
		}

		m := tree.Resolve("/old/5")
		_, err = m.ResolveRedirect()
		var unresolved *UnresolvedParamError
		if !errors.As(err, &unresolved) {
			t.Fatalf("ResolveRedirect() error = %v, want UnresolvedParamError", err)
		}
		if unresolved.Param != "missing" {
			t.Errorf("UnresolvedParamError.Param = %q, want missing", unresolved.Param)
		}
		if unresolved.Template != "/new/{missing}" {
			t.Errorf("UnresolvedParamError.Template = %q, want /new/{missing}", unresolved.Template)
		}
	})

	t.Run("not a redirect", func(t *testing.T) {
		tree := testTree(t)
		m := tree.Resolve("/settings")
		if _, err := m.ResolveRedirect(); err == nil {
			t.Error("ResolveRedirect() on page route expected error")
		}
	})
}
