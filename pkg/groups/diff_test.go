package groups

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name         string
		prev, next   []string
		wantKeep     []string
		wantTearDown []string
		wantMountNew []string
	}{
		{
			name:         "identical chains keep everything",
			prev:         []string{"a", "b"},
			next:         []string{"a", "b"},
			wantKeep:     []string{"a", "b"},
			wantTearDown: []string{},
			wantMountNew: []string{},
		},
		{
			name:         "empty to populated mounts all",
			prev:         nil,
			next:         []string{"a", "b"},
			wantKeep:     []string{},
			wantTearDown: []string{},
			wantMountNew: []string{"a", "b"},
		},
		{
			name:         "populated to empty tears down all",
			prev:         []string{"a", "b"},
			next:         nil,
			wantKeep:     []string{},
			wantTearDown: []string{"a", "b"},
			wantMountNew: []string{},
		},
		{
			name:         "shared prefix survives divergence",
			prev:         []string{"a", "b", "c"},
			next:         []string{"a", "b", "d"},
			wantKeep:     []string{"a", "b"},
			wantTearDown: []string{"c"},
			wantMountNew: []string{"d"},
		},
		{
			name:         "divergence at the root replaces everything",
			prev:         []string{"a", "b"},
			next:         []string{"x", "b"},
			wantKeep:     []string{},
			wantTearDown: []string{"a", "b"},
			wantMountNew: []string{"x", "b"},
		},
		{
			name:         "chain deepens",
			prev:         []string{"a"},
			next:         []string{"a", "b", "c"},
			wantKeep:     []string{"a"},
			wantTearDown: []string{},
			wantMountNew: []string{"b", "c"},
		},
		{
			name:         "chain shallows",
			prev:         []string{"a", "b", "c"},
			next:         []string{"a"},
			wantKeep:     []string{"a"},
			wantTearDown: []string{"b", "c"},
			wantMountNew: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := Diff(tc.prev, tc.next)
			if !equalSlices(tr.Keep, tc.wantKeep) {
				t.Errorf("Keep = %v, want %v", tr.Keep, tc.wantKeep)
			}
			if !equalSlices(tr.TearDown, tc.wantTearDown) {
				t.Errorf("TearDown = %v, want %v", tr.TearDown, tc.wantTearDown)
			}
			if !equalSlices(tr.MountNew, tc.wantMountNew) {
				t.Errorf("MountNew = %v, want %v", tr.MountNew, tc.wantMountNew)
			}

			// The transition must reassemble both inputs.
			if rebuilt := append(append([]string{}, tr.Keep...), tr.TearDown...); !equalSlices(rebuilt, tc.prev) {
				t.Errorf("Keep+TearDown = %v, want prev %v", rebuilt, tc.prev)
			}
			if rebuilt := append(append([]string{}, tr.Keep...), tr.MountNew...); !equalSlices(rebuilt, tc.next) {
				t.Errorf("Keep+MountNew = %v, want next %v", rebuilt, tc.next)
			}
		})
	}
}

func TestDiffIdentityNotContent(t *testing.T) {
	type wrapper struct{ label string }
	a1 := &wrapper{label: "same"}
	a2 := &wrapper{label: "same"}

	tr := Diff([]*wrapper{a1}, []*wrapper{a2})
	if tr.Unchanged() {
		t.Error("distinct pointers with equal content must not be kept")
	}
	if len(tr.TearDown) != 1 || tr.TearDown[0] != a1 {
		t.Errorf("TearDown = %v, want [a1]", tr.TearDown)
	}
	if len(tr.MountNew) != 1 || tr.MountNew[0] != a2 {
		t.Errorf("MountNew = %v, want [a2]", tr.MountNew)
	}
}

func TestTransitionUnchanged(t *testing.T) {
	if !Diff([]int{1, 2}, []int{1, 2}).Unchanged() {
		t.Error("identical chains should be Unchanged")
	}
	if Diff([]int{1}, []int{2}).Unchanged() {
		t.Error("diverging chains should not be Unchanged")
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
