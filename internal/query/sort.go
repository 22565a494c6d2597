package query

import (
	"fmt"
	"strings"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// DirectionAscend is the client token for ascending order. Any other token,
// including the empty string, maps to descending. That permissive mapping is
// deliberate; do not tighten it.
const DirectionAscend = "ascend"

// SortSpec is the raw client sort directive.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// SortKey is one resolved ordering key over a real column.
type SortKey struct {
	Column    string
	Direction Direction
}

// DefaultSort is the stable fallback ordering for every listing: newest
// first, with the primary key breaking timestamp ties so pagination never
// shuffles rows between pages.
var DefaultSort = []SortKey{
	{Column: "created_at", Direction: Descending},
	{Column: "id", Direction: Descending},
}

// ResolveSort maps a client sort directive to a deterministic ordering.
// allowed maps client field names to columns; anything not in the map (and
// an empty spec) falls back to DefaultSort. A resolved key always gets an
// id tiebreak appended.
func ResolveSort(spec SortSpec, allowed map[string]string) []SortKey {
	column, ok := allowed[spec.Field]
	if spec.Field == "" || !ok {
		return DefaultSort
	}
	dir := Descending
	if spec.Direction == DirectionAscend {
		dir = Ascending
	}
	return []SortKey{
		{Column: column, Direction: dir},
		{Column: "id", Direction: Descending},
	}
}

// OrderBy renders resolved sort keys as an ORDER BY clause.
func OrderBy(keys []SortKey) string {
	if len(keys) == 0 {
		keys = DefaultSort
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		dir := "DESC"
		if k.Direction == Ascending {
			dir = "ASC"
		}
		parts[i] = fmt.Sprintf("%s %s", k.Column, dir)
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
