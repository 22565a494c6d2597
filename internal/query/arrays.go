package query

import (
	"fmt"

	"github.com/lib/pq"
)

// Overlaps adds "column && values" (array overlap: row matches when it holds
// ANY of the values). Absent adds nothing; a present empty list matches
// nothing.
func Overlaps(b *Builder, column string, o Opt[[]string]) {
	vs, ok := o.Get()
	if !ok {
		return
	}
	if len(vs) == 0 {
		b.Cond("FALSE")
		return
	}
	b.Cond(fmt.Sprintf("%s && %s", column, b.Arg(pq.Array(vs))))
}

// ContainsAll adds "column @> values" (row matches when it holds ALL of the
// values). Absent adds nothing; a present empty list is vacuously true.
func ContainsAll(b *Builder, column string, o Opt[[]string]) {
	vs, ok := o.Get()
	if !ok {
		return
	}
	if len(vs) == 0 {
		b.Cond("TRUE")
		return
	}
	b.Cond(fmt.Sprintf("%s @> %s", column, b.Arg(pq.Array(vs))))
}
