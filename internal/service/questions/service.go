package questions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
)

// Service implements question business logic.
type Service struct {
	repo Repository
}

// NewService creates a question service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of questions and the total match count.
func (s *Service) List(ctx context.Context, f ListFilter) (query.Result[domain.Question], error) {
	if err := f.Page.Validate(); err != nil {
		return query.Result[domain.Question]{}, err
	}
	if f.Language == "" {
		f.Language = "EN"
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return query.Result[domain.Question]{}, err
	}
	return query.Result[domain.Question]{Items: items, Total: total}, nil
}

// Get returns a single question.
func (s *Service) Get(ctx context.Context, id string) (*domain.Question, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new question.
func (s *Service) Create(ctx context.Context, input CreateInput, actor string) (*domain.Question, error) {
	if len(input.Text) == 0 {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if input.Topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrValidation)
	}

	q := &domain.Question{
		ID:         uuid.New().String(),
		Text:       input.Text,
		Topic:      input.Topic,
		Keywords:   input.Keywords,
		Answers:    input.Answers,
		Variations: input.Variations,
		Internal:   input.Internal,
		IsActive:   true,
		CreatedBy:  actor,
		UpdatedBy:  actor,
	}
	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	q.ID = id
	return q, nil
}

// Update modifies mutable question fields.
func (s *Service) Update(ctx context.Context, id string, u UpdateFields, actor string) error {
	u.UpdatedBy = actor
	return s.repo.Update(ctx, id, u)
}

// Delete retires the given questions.
func (s *Service) Delete(ctx context.Context, ids []string, actor string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.Delete(ctx, ids, actor)
}
