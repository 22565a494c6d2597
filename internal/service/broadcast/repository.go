package broadcast

import (
	"context"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
)

// Repository defines the data access contract for broadcast templates and
// dispatch records. Implementations must be safe for concurrent use.
type Repository interface {
	// ListTemplates returns one page of templates matching the filter plus
	// the total match count.
	ListTemplates(ctx context.Context, f TemplateFilter) ([]domain.BroadcastTemplate, int, error)

	// GetTemplate returns a single template. Returns ErrNotFound if it
	// doesn't exist.
	GetTemplate(ctx context.Context, id string) (*domain.BroadcastTemplate, error)

	// CreateTemplate inserts a new template and returns its ID.
	CreateTemplate(ctx context.Context, t *domain.BroadcastTemplate) (string, error)

	// UpdateTemplate modifies a template. Only non-nil fields are applied.
	UpdateTemplate(ctx context.Context, id string, u TemplateUpdate) error

	// DeleteTemplate retires a template (soft delete).
	DeleteTemplate(ctx context.Context, id, actor string) error

	// TemplateDispatched reports whether any broadcast references the
	// template. Dispatched templates are immutable.
	TemplateDispatched(ctx context.Context, id string) (bool, error)

	// ListHistory returns one page of dispatch records matching the filter
	// plus the total match count.
	ListHistory(ctx context.Context, f HistoryFilter) ([]domain.Broadcast, int, error)

	// GetBroadcast returns a single dispatch record. Returns
	// ErrRecordNotFound if it doesn't exist.
	GetBroadcast(ctx context.Context, id string) (*domain.Broadcast, error)

	// CreateBroadcast inserts a new pending dispatch record and returns its
	// ID. Exactly one record is created per call; the repository never
	// retries on its own.
	CreateBroadcast(ctx context.Context, b *domain.Broadcast) (string, error)
}

// TagDirectory lists the distinct tags held by bot users, for the targeting
// UI. Implementations may cache.
type TagDirectory interface {
	DistinctTags(ctx context.Context) ([]string, error)
}

// TemplateFilter controls template listing. Name is a substring match on
// the template name. Flows filters templates by the flow they attach to:
// any of the given flows by default, all of them when Intersect is set.
type TemplateFilter struct {
	Name      query.Opt[string]
	Flows     query.Opt[[]string]
	Intersect bool
	Platform  query.Opt[string]
	Sort      query.SortSpec
	Page      query.Page
}

// HistoryFilter controls dispatch-record listing. Tags filters by the tags
// a broadcast targeted (any/all via Intersect); Status filters by lifecycle
// state.
type HistoryFilter struct {
	Tags      query.Opt[[]string]
	Intersect bool
	Status    query.Opt[string]
	Sort      query.SortSpec
	Page      query.Page
}

// TemplateInput holds the fields for creating or replacing a template.
type TemplateInput struct {
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
	FlowID    *string  `json:"flow_id"`
	Content   string   `json:"content"`
}

// TemplateUpdate holds the mutable fields for a template update.
// Nil fields are not applied.
type TemplateUpdate struct {
	Name      *string
	Platforms []string
	FlowID    *string
	Content   *string
	UpdatedBy string
}
