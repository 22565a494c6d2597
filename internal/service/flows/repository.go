package flows

import (
	"context"
	"time"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
)

// Repository defines the data access contract for flows.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns one page of flows matching the filter plus the total
	// number of matches before pagination. A page past the end returns an
	// empty slice with the same total, not an error.
	List(ctx context.Context, f ListFilter) ([]domain.Flow, int, error)

	// Get returns a single flow. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Flow, error)

	// Create inserts a new flow and returns its ID.
	Create(ctx context.Context, fl *domain.Flow) (string, error)

	// Update modifies a flow. Only non-nil fields in the update are applied.
	Update(ctx context.Context, id string, u UpdateFields) error

	// Delete retires the given flows (soft delete). Missing IDs are ignored.
	Delete(ctx context.Context, ids []string, actor string) error

	// DistinctValues returns the distinct values of a whitelisted column,
	// for building filter dropdowns.
	DistinctValues(ctx context.Context, column string) ([]string, error)
}

// ListFilter controls filtering, sorting, and pagination for flow lists.
// Absent options never constrain the result.
type ListFilter struct {
	Name      query.Opt[string]
	Language  string
	CreatedAt query.Opt[query.Span[time.Time]]
	UpdatedAt query.Opt[query.Span[time.Time]]
	Triggered query.Opt[query.Span[int]]
	Sort      query.SortSpec
	Page      query.Page
}

// UpdateFields holds the mutable fields for a flow update.
// Nil fields are not applied.
type UpdateFields struct {
	Name      map[string]string
	Type      *string
	Platforms []string
	UpdatedBy string
}

// CreateInput holds the fields for creating a new flow.
type CreateInput struct {
	Name      map[string]string `json:"name"`
	Type      string            `json:"type"`
	Platforms []string          `json:"platforms"`
}
