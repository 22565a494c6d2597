package query

import (
	"reflect"
	"testing"
)

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"hello":       "hello",
		"100%":        `100\%`,
		"a_b":         `a\_b`,
		`back\slash`:  `back\\slash`,
		`%_\`:         `\%\_\\`,
		"50% off_now": `50\% off\_now`,
	}
	for in, want := range cases {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsFoldLiteralMatch(t *testing.T) {
	b := NewBuilder()
	ContainsFold(b, "name", Some("100% sure"))

	want := `WHERE name ILIKE $1 ESCAPE '\'`
	if got := b.Where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !reflect.DeepEqual(b.Args(), []interface{}{`%100\% sure%`}) {
		t.Fatalf("unexpected args: %v", b.Args())
	}
}

func TestContainsFoldEmptyOmitted(t *testing.T) {
	b := NewBuilder()
	ContainsFold(b, "name", Some(""))
	ContainsFold(b, "name", None[string]())

	if got := b.Where(); got != "" {
		t.Fatalf("empty search text must add no condition, got %q", got)
	}
}

func TestContainsFoldLang(t *testing.T) {
	b := NewBuilder()
	ContainsFoldLang(b, "text", "EN", Some("e-card"))

	want := `WHERE text->>$1 ILIKE $2 ESCAPE '\'`
	if got := b.Where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !reflect.DeepEqual(b.Args(), []interface{}{"EN", "%e-card%"}) {
		t.Fatalf("unexpected args: %v", b.Args())
	}
}

func TestContainsFoldLangAbsentBindsNothing(t *testing.T) {
	b := NewBuilder()
	ContainsFoldLang(b, "text", "EN", None[string]())

	if len(b.Args()) != 0 {
		t.Fatalf("absent search must not bind the language arg, got %v", b.Args())
	}
}
