package flows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
)

// distinctColumns maps client filter-field names to columns safe to run
// DISTINCT over. Anything else is rejected with ErrInvalidField.
var distinctColumns = map[string]string{
	"type":     "type",
	"platform": "unnest(platforms)",
}

// Service implements flow business logic. All public methods are safe for
// concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a flow service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of flows and the total match count.
func (s *Service) List(ctx context.Context, f ListFilter) (query.Result[domain.Flow], error) {
	if err := f.Page.Validate(); err != nil {
		return query.Result[domain.Flow]{}, err
	}
	if f.Language == "" {
		f.Language = "EN"
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return query.Result[domain.Flow]{}, err
	}
	return query.Result[domain.Flow]{Items: items, Total: total}, nil
}

// Get returns a single flow.
func (s *Service) Get(ctx context.Context, id string) (*domain.Flow, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new flow.
func (s *Service) Create(ctx context.Context, input CreateInput, actor string) (*domain.Flow, error) {
	if len(input.Name) == 0 {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	for lang, n := range input.Name {
		if n == "" {
			return nil, fmt.Errorf("%w: name for language %s is empty", ErrValidation, lang)
		}
	}

	fl := &domain.Flow{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Type:      input.Type,
		Platforms: input.Platforms,
		IsActive:  true,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	id, err := s.repo.Create(ctx, fl)
	if err != nil {
		return nil, err
	}
	fl.ID = id
	return fl, nil
}

// Update modifies mutable flow fields.
func (s *Service) Update(ctx context.Context, id string, u UpdateFields, actor string) error {
	u.UpdatedBy = actor
	return s.repo.Update(ctx, id, u)
}

// Delete retires the given flows.
func (s *Service) Delete(ctx context.Context, ids []string, actor string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.Delete(ctx, ids, actor)
}

// FieldValues returns the distinct values of a filterable field.
func (s *Service) FieldValues(ctx context.Context, field string) ([]string, error) {
	column, ok := distinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, field)
	}
	return s.repo.DistinctValues(ctx, column)
}
