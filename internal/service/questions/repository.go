package questions

import (
	"context"
	"time"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
)

// Repository defines the data access contract for questions.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns one page of questions matching the filter plus the total
	// match count before pagination.
	List(ctx context.Context, f ListFilter) ([]domain.Question, int, error)

	// Get returns a single question. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Question, error)

	// Create inserts a new question and returns its ID.
	Create(ctx context.Context, q *domain.Question) (string, error)

	// Update modifies a question. Only non-nil fields are applied.
	Update(ctx context.Context, id string, u UpdateFields) error

	// Delete retires the given questions (soft delete).
	Delete(ctx context.Context, ids []string, actor string) error
}

// ListFilter controls filtering, sorting, and pagination for question lists.
// Text searches the localized question text for the given language; absent
// options never constrain.
type ListFilter struct {
	Topic     query.Opt[string]
	Text      query.Opt[string]
	Language  string
	CreatedAt query.Opt[query.Span[time.Time]]
	Internal  query.Opt[bool]
	Sort      query.SortSpec
	Page      query.Page
}

// UpdateFields holds the mutable fields for a question update.
type UpdateFields struct {
	Text       map[string]string
	Topic      *string
	Keywords   []string
	Answers    []domain.QuestionAnswer
	Variations []domain.QuestionVariation
	ActiveAt   *time.Time
	ExpireAt   *time.Time
	UpdatedBy  string
}

// CreateInput holds the fields for creating a new question.
type CreateInput struct {
	Text       map[string]string          `json:"text"`
	Topic      string                     `json:"topic"`
	Keywords   []string                   `json:"keywords"`
	Answers    []domain.QuestionAnswer    `json:"answers"`
	Variations []domain.QuestionVariation `json:"alternate_questions"`
	Internal   bool                       `json:"internal"`
}
