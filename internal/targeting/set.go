package targeting

import "sort"

// UserSet is a set of bot-user identifiers. All operations return new sets;
// operands are never mutated.
type UserSet map[string]struct{}

// NewUserSet builds a set from ids.
func NewUserSet(ids ...string) UserSet {
	s := make(UserSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s UserSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the set size.
func (s UserSet) Len() int {
	return len(s)
}

// Union returns s ∪ o.
func (s UserSet) Union(o UserSet) UserSet {
	out := make(UserSet, len(s)+len(o))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns s ∩ o.
func (s UserSet) Intersect(o UserSet) UserSet {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(UserSet)
	for id := range small {
		if large.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Diff returns s minus o.
func (s UserSet) Diff(o UserSet) UserSet {
	out := make(UserSet)
	for id := range s {
		if !o.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// IDs returns the members in sorted order, so repeated resolutions of the
// same index produce identical output.
func (s UserSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
