package history

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Location
	}{
		{"/", Location{Path: "/"}},
		{"", Location{Path: "/"}},
		{"/a/b", Location{Path: "/a/b"}},
		{"/a?tab=1", Location{Path: "/a", Search: "?tab=1"}},
		{"/a?", Location{Path: "/a"}},
		{"?x=1", Location{Path: "/", Search: "?x=1"}},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := Parse(tc.input); got != tc.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}

	loc := Parse("/a?tab=1")
	if loc.Full() != "/a?tab=1" {
		t.Errorf("Full() = %q, want /a?tab=1", loc.Full())
	}
	if loc.RawQuery() != "tab=1" {
		t.Errorf("RawQuery() = %q, want tab=1", loc.RawQuery())
	}
}

func TestMemoryNavigate(t *testing.T) {
	m := NewMemory("/")

	var seen []string
	cancel := m.Subscribe(func(loc Location) {
		seen = append(seen, loc.Full())
	})
	defer cancel()

	m.Navigate("/a")
	m.Navigate("/b?x=1")

	if got := m.Location().Full(); got != "/b?x=1" {
		t.Errorf("Location() = %q, want /b?x=1", got)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if want := []string{"/a", "/b?x=1"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("subscriber saw %v, want %v", seen, want)
	}
}

func TestMemoryReplace(t *testing.T) {
	m := NewMemory("/")
	m.Navigate("/a")
	m.Replace("/a-fixed")

	if got := m.Location().Full(); got != "/a-fixed" {
		t.Errorf("Location() = %q, want /a-fixed", got)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (replace must not grow the stack)", m.Len())
	}

	m.Back()
	if got := m.Location().Full(); got != "/" {
		t.Errorf("Location() after Back = %q, want /", got)
	}
}

func TestMemoryBackForward(t *testing.T) {
	m := NewMemory("/")
	m.Navigate("/a")
	m.Navigate("/b")

	m.Back()
	if got := m.Location().Full(); got != "/a" {
		t.Errorf("after Back: %q, want /a", got)
	}

	m.Forward()
	if got := m.Location().Full(); got != "/b" {
		t.Errorf("after Forward: %q, want /b", got)
	}

	// Walking off either end is a no-op.
	m.Forward()
	if got := m.Location().Full(); got != "/b" {
		t.Errorf("Forward at end moved to %q", got)
	}
	m.Back()
	m.Back()
	m.Back()
	if got := m.Location().Full(); got != "/" {
		t.Errorf("Back past start moved to %q", got)
	}
}

func TestMemoryNavigateTruncatesForward(t *testing.T) {
	m := NewMemory("/")
	m.Navigate("/a")
	m.Navigate("/b")
	m.Back()

	m.Navigate("/c")
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (/, /a, /c)", m.Len())
	}
	m.Forward()
	if got := m.Location().Full(); got != "/c" {
		t.Errorf("Forward after truncation moved to %q, want /c", got)
	}
}

func TestMemorySubscribeCancel(t *testing.T) {
	m := NewMemory("/")

	calls := 0
	cancel := m.Subscribe(func(Location) { calls++ })

	m.Navigate("/a")
	cancel()
	m.Navigate("/b")

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestMemorySubscriberMayNavigate(t *testing.T) {
	m := NewMemory("/")

	redirected := false
	m.Subscribe(func(loc Location) {
		if loc.Path == "/old" && !redirected {
			redirected = true
			m.Replace("/new")
		}
	})

	m.Navigate("/old")
	if got := m.Location().Full(); got != "/new" {
		t.Errorf("Location() = %q, want /new (re-entrant Replace)", got)
	}
}
