package targeting

import (
	"context"
	"fmt"
)

// Selector is the tag expression that determines who receives a broadcast.
type Selector struct {
	// IncludeTags are the candidate tags. With Intersect false the candidate
	// set is users holding ANY of them; with Intersect true it is users
	// holding ALL of them.
	IncludeTags []string `json:"tags"`
	// ExcludeTags are subtracted from the candidates last, regardless of the
	// other switches.
	ExcludeTags []string `json:"exclude"`
	Intersect   bool     `json:"intersect"`
	// IncludeAll targets every active user; IncludeTags is ignored when set.
	IncludeAll bool `json:"to_all"`
}

// TagIndex is the read side of the user-tag store. Implementations must be
// safe for concurrent use; lookups of a tag nobody holds return an empty
// set, not an error.
type TagIndex interface {
	UsersWithTag(ctx context.Context, tag string) (UserSet, error)
	AllActiveUserIDs(ctx context.Context) (UserSet, error)
}

// Resolver computes recipient sets against a tag index.
type Resolver struct {
	index TagIndex
}

// NewResolver creates a resolver over the given tag index.
func NewResolver(index TagIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve computes the recipient set for a selector:
//
//  1. include-all: candidates = every active user
//  2. intersect:   candidates = ∩ usersWithTag(t); empty include list → ∅
//  3. union:       candidates = ∪ usersWithTag(t)
//  4. result = candidates − ∪ usersWithTag(excluded)
//
// The empty-intersection rule keeps a selector with no include tags from ever
// turning into an accidental broadcast to everyone.
func (r *Resolver) Resolve(ctx context.Context, sel Selector) (UserSet, error) {
	candidates, err := r.candidates(ctx, sel)
	if err != nil {
		return nil, err
	}

	for _, tag := range sel.ExcludeTags {
		excluded, err := r.index.UsersWithTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("resolve exclude tag %q: %w", tag, err)
		}
		candidates = candidates.Diff(excluded)
	}
	return candidates, nil
}

func (r *Resolver) candidates(ctx context.Context, sel Selector) (UserSet, error) {
	if sel.IncludeAll {
		all, err := r.index.AllActiveUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve all active users: %w", err)
		}
		return all, nil
	}

	if len(sel.IncludeTags) == 0 {
		return NewUserSet(), nil
	}

	var candidates UserSet
	for i, tag := range sel.IncludeTags {
		users, err := r.index.UsersWithTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", tag, err)
		}
		switch {
		case i == 0:
			candidates = users
		case sel.Intersect:
			candidates = candidates.Intersect(users)
		default:
			candidates = candidates.Union(users)
		}
		// An intersection can only shrink; stop early once it's empty.
		if sel.Intersect && candidates.Len() == 0 {
			return NewUserSet(), nil
		}
	}
	return candidates, nil
}
