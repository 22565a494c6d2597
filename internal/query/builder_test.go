package query

import (
	"reflect"
	"testing"
	"time"
)

func TestBuilderAbsentNeverConstrains(t *testing.T) {
	b := NewBuilder()
	Eq(b, "topic", None[string]())
	Eq(b, "internal", None[bool]())
	Between(b, "created_at", None[Span[time.Time]]())
	In(b, "status", None[[]string]())

	if got := b.Where(); got != "" {
		t.Fatalf("expected empty predicate, got %q", got)
	}
	if len(b.Args()) != 0 {
		t.Fatalf("expected no args, got %v", b.Args())
	}
}

func TestBuilderPresentFalsyConstrains(t *testing.T) {
	b := NewBuilder()
	Eq(b, "topic", Some(""))
	Eq(b, "internal", Some(false))

	want := "WHERE topic = $1 AND internal = $2"
	if got := b.Where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !reflect.DeepEqual(b.Args(), []interface{}{"", false}) {
		t.Fatalf("unexpected args: %v", b.Args())
	}
}

func TestBuilderCombinesWithAnd(t *testing.T) {
	b := NewBuilder()
	b.Cond("is_active = TRUE")
	Eq(b, "topic", Some("faq"))
	Between(b, "triggered_count", Some(Span[int]{From: 1, To: 10}))

	want := "WHERE is_active = TRUE AND topic = $1 AND triggered_count BETWEEN $2 AND $3"
	if got := b.Where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !reflect.DeepEqual(b.Args(), []interface{}{"faq", 1, 10}) {
		t.Fatalf("unexpected args: %v", b.Args())
	}
}

func TestBuilderInEmptyMatchesNothing(t *testing.T) {
	b := NewBuilder()
	In(b, "status", Some([]string{}))

	if got := b.Where(); got != "WHERE FALSE" {
		t.Fatalf("expected WHERE FALSE, got %q", got)
	}
}

func TestBuilderIn(t *testing.T) {
	b := NewBuilder()
	In(b, "status", Some([]string{"pending", "sent"}))

	want := "WHERE status IN ($1, $2)"
	if got := b.Where(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestOptFromPtr(t *testing.T) {
	if FromPtr[string](nil).Present() {
		t.Fatal("nil pointer should be absent")
	}
	s := ""
	o := FromPtr(&s)
	v, ok := o.Get()
	if !ok || v != "" {
		t.Fatalf("expected present empty string, got (%q, %v)", v, ok)
	}
}
