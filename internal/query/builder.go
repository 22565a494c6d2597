package query

import (
	"fmt"
	"strings"
)

// Builder assembles a WHERE predicate from optional filter fields. Conditions
// are AND-combined. Absent options contribute nothing; present options always
// contribute, whatever their value. Build once, then reuse the same builder
// for both the COUNT and the page fetch so the two run against an identical
// predicate.
type Builder struct {
	conds []string
	args  []interface{}
}

// NewBuilder creates an empty predicate builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Arg registers a query argument and returns its positional placeholder.
func (b *Builder) Arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Cond appends a raw SQL condition. The condition must reference arguments
// through Arg placeholders only; callers never interpolate values.
func (b *Builder) Cond(c string) {
	b.conds = append(b.conds, c)
}

// Where returns the full "WHERE ..." clause, or the empty string when no
// condition was added.
func (b *Builder) Where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the accumulated positional arguments.
func (b *Builder) Args() []interface{} {
	return b.args
}

// Eq adds "column = value" when the option is present.
func Eq[T any](b *Builder, column string, o Opt[T]) {
	if v, ok := o.Get(); ok {
		b.Cond(fmt.Sprintf("%s = %s", column, b.Arg(v)))
	}
}

// Between adds an inclusive range condition when the option is present.
func Between[T any](b *Builder, column string, o Opt[Span[T]]) {
	if s, ok := o.Get(); ok {
		b.Cond(fmt.Sprintf("%s BETWEEN %s AND %s", column, b.Arg(s.From), b.Arg(s.To)))
	}
}

// In adds "column IN (...)" when the option is present and the slice is
// non-empty. A present empty slice matches nothing, so it becomes FALSE
// rather than being dropped.
func In[T any](b *Builder, column string, o Opt[[]T]) {
	vs, ok := o.Get()
	if !ok {
		return
	}
	if len(vs) == 0 {
		b.Cond("FALSE")
		return
	}
	placeholders := make([]string, len(vs))
	for i, v := range vs {
		placeholders[i] = b.Arg(v)
	}
	b.Cond(fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
}
