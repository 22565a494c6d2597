package targeting

import (
	"context"
	"reflect"
	"testing"
)

// memIndex is an in-memory tag index for unit testing.
type memIndex struct {
	byTag  map[string][]string
	active []string
}

func (m *memIndex) UsersWithTag(_ context.Context, tag string) (UserSet, error) {
	return NewUserSet(m.byTag[tag]...), nil
}

func (m *memIndex) AllActiveUserIDs(_ context.Context) (UserSet, error) {
	return NewUserSet(m.active...), nil
}

func testIndex() *memIndex {
	return &memIndex{
		byTag: map[string][]string{
			"vip":     {"A", "B"},
			"new":     {"A", "C"},
			"blocked": {"C"},
		},
		active: []string{"A", "B", "C"},
	}
}

func resolve(t *testing.T, sel Selector) UserSet {
	t.Helper()
	got, err := NewResolver(testIndex()).Resolve(context.Background(), sel)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return got
}

func TestResolveUnion(t *testing.T) {
	got := resolve(t, Selector{IncludeTags: []string{"vip"}})
	if !reflect.DeepEqual(got.IDs(), []string{"A", "B"}) {
		t.Fatalf("expected {A,B}, got %v", got.IDs())
	}

	got = resolve(t, Selector{IncludeTags: []string{"vip", "new"}})
	if !reflect.DeepEqual(got.IDs(), []string{"A", "B", "C"}) {
		t.Fatalf("expected {A,B,C}, got %v", got.IDs())
	}
}

func TestResolveIntersect(t *testing.T) {
	got := resolve(t, Selector{IncludeTags: []string{"vip", "new"}, Intersect: true})
	if !reflect.DeepEqual(got.IDs(), []string{"A"}) {
		t.Fatalf("expected {A}, got %v", got.IDs())
	}
}

func TestResolveEmptyIncludeIsEmptySet(t *testing.T) {
	for _, sel := range []Selector{
		{Intersect: true},
		{Intersect: false},
	} {
		if got := resolve(t, sel); got.Len() != 0 {
			t.Errorf("selector %+v should resolve to the empty set, got %v", sel, got.IDs())
		}
	}
}

func TestResolveIncludeAllWithExcludes(t *testing.T) {
	got := resolve(t, Selector{IncludeAll: true, ExcludeTags: []string{"blocked"}})
	if !reflect.DeepEqual(got.IDs(), []string{"A", "B"}) {
		t.Fatalf("expected {A,B}, got %v", got.IDs())
	}
}

func TestResolveExcludesSubtractedLast(t *testing.T) {
	got := resolve(t, Selector{IncludeTags: []string{"vip", "new"}, ExcludeTags: []string{"blocked"}})
	if !reflect.DeepEqual(got.IDs(), []string{"A", "B"}) {
		t.Fatalf("expected {A,B}, got %v", got.IDs())
	}
}

func TestResolveUnknownTagIsEmptyNotError(t *testing.T) {
	got := resolve(t, Selector{IncludeTags: []string{"nope"}})
	if got.Len() != 0 {
		t.Fatalf("unknown tag should contribute nothing, got %v", got.IDs())
	}

	// Unknown tag inside an intersection wipes the result.
	got = resolve(t, Selector{IncludeTags: []string{"vip", "nope"}, Intersect: true})
	if got.Len() != 0 {
		t.Fatalf("intersection with unknown tag should be empty, got %v", got.IDs())
	}
}

func TestResolveDeterministic(t *testing.T) {
	sel := Selector{IncludeTags: []string{"vip", "new"}, ExcludeTags: []string{"blocked"}}
	first := resolve(t, sel)
	for i := 0; i < 5; i++ {
		if got := resolve(t, sel); !reflect.DeepEqual(got, first) {
			t.Fatalf("resolution not deterministic: %v vs %v", got.IDs(), first.IDs())
		}
	}
}

func TestSetOperations(t *testing.T) {
	a := NewUserSet("1", "2", "3")
	b := NewUserSet("2", "3", "4")

	if got := a.Union(b).IDs(); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("union: %v", got)
	}
	if got := a.Intersect(b).IDs(); !reflect.DeepEqual(got, []string{"2", "3"}) {
		t.Fatalf("intersect: %v", got)
	}
	if got := a.Diff(b).IDs(); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("diff: %v", got)
	}
	// Operands unchanged.
	if a.Len() != 3 || b.Len() != 3 {
		t.Fatal("set operations must not mutate operands")
	}
}
