package query

import (
	"fmt"
	"strings"
)

// likeEscaper neutralizes the characters that carry meaning inside a LIKE
// pattern so user-supplied search text always matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters in s.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsFold adds a case-insensitive literal substring condition on column.
// Absent or empty text adds no condition at all: "no search" is not the same
// as "matches the empty string".
func ContainsFold(b *Builder, column string, o Opt[string]) {
	text, ok := o.Get()
	if !ok || text == "" {
		return
	}
	b.Cond(fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, b.Arg("%"+EscapeLike(text)+"%")))
}

// ContainsFoldLang is ContainsFold scoped to one language key of a JSONB
// localized-text column ({"EN": "...", "ZH": "..."}). The language argument
// is only bound when a condition is actually added.
func ContainsFoldLang(b *Builder, column, language string, o Opt[string]) {
	text, ok := o.Get()
	if !ok || text == "" {
		return
	}
	b.Cond(fmt.Sprintf(`%s->>%s ILIKE %s ESCAPE '\'`,
		column, b.Arg(language), b.Arg("%"+EscapeLike(text)+"%")))
}
