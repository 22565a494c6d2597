package broadcast

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/pkg/logger"
	"github.com/ignite/botconsole/internal/query"
	"github.com/ignite/botconsole/internal/targeting"
)

// TemplateValidator checks that template content is deliverable. The
// concrete implementation is the Liquid engine in internal/message.
type TemplateValidator interface {
	Validate(content string) error
}

// Service implements broadcast business logic: template CRUD, history
// queries, recipient resolution, and dispatch planning.
type Service struct {
	repo     Repository
	tags     TagDirectory
	resolver *targeting.Resolver
	validate TemplateValidator
}

// NewService creates a broadcast service.
func NewService(repo Repository, tags TagDirectory, resolver *targeting.Resolver, v TemplateValidator) *Service {
	return &Service{repo: repo, tags: tags, resolver: resolver, validate: v}
}

// ==========================================
// TEMPLATES
// ==========================================

// ListTemplates returns one page of templates and the total match count.
func (s *Service) ListTemplates(ctx context.Context, f TemplateFilter) (query.Result[domain.BroadcastTemplate], error) {
	if err := f.Page.Validate(); err != nil {
		return query.Result[domain.BroadcastTemplate]{}, err
	}
	items, total, err := s.repo.ListTemplates(ctx, f)
	if err != nil {
		return query.Result[domain.BroadcastTemplate]{}, err
	}
	return query.Result[domain.BroadcastTemplate]{Items: items, Total: total}, nil
}

// GetTemplate returns a single template.
func (s *Service) GetTemplate(ctx context.Context, id string) (*domain.BroadcastTemplate, error) {
	return s.repo.GetTemplate(ctx, id)
}

// CreateTemplate validates and persists a new template.
func (s *Service) CreateTemplate(ctx context.Context, input TemplateInput, actor string) (*domain.BroadcastTemplate, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := s.validate.Validate(input.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	t := &domain.BroadcastTemplate{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Platforms: input.Platforms,
		FlowID:    input.FlowID,
		Content:   input.Content,
		IsActive:  true,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	id, err := s.repo.CreateTemplate(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// UpdateTemplate modifies a template. Templates referenced by a dispatched
// broadcast are immutable and return ErrTemplateLocked.
func (s *Service) UpdateTemplate(ctx context.Context, id string, input TemplateInput, actor string) error {
	if err := s.validate.Validate(input.Content); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	dispatched, err := s.repo.TemplateDispatched(ctx, id)
	if err != nil {
		return err
	}
	if dispatched {
		return ErrTemplateLocked
	}

	u := TemplateUpdate{
		Platforms: input.Platforms,
		FlowID:    input.FlowID,
		UpdatedBy: actor,
	}
	if input.Name != "" {
		u.Name = &input.Name
	}
	u.Content = &input.Content
	return s.repo.UpdateTemplate(ctx, id, u)
}

// DeleteTemplate retires a template. Dispatched templates stay for history
// and return ErrTemplateLocked.
func (s *Service) DeleteTemplate(ctx context.Context, id, actor string) error {
	dispatched, err := s.repo.TemplateDispatched(ctx, id)
	if err != nil {
		return err
	}
	if dispatched {
		return ErrTemplateLocked
	}
	return s.repo.DeleteTemplate(ctx, id, actor)
}

// ==========================================
// TARGETING
// ==========================================

// ResolveRecipients computes the user IDs a selector targets, in sorted
// order. Used by the recipient-preview endpoint.
func (s *Service) ResolveRecipients(ctx context.Context, sel targeting.Selector) ([]string, error) {
	set, err := s.resolver.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	return set.IDs(), nil
}

// UserTags lists the distinct tags available for targeting.
func (s *Service) UserTags(ctx context.Context) ([]string, error) {
	return s.tags.DistinctTags(ctx)
}

// ==========================================
// PLANNING
// ==========================================

// PlanInput names the template to send and the selector describing who
// receives it.
type PlanInput struct {
	TemplateID string              `json:"template_id"`
	Selector   targeting.Selector  `json:"selector"`
}

// Plan validates the template, resolves the recipient set, and persists
// exactly one pending dispatch record. Validation failures short-circuit
// before the (possibly expensive) recipient resolution. An empty recipient
// set still yields a pending record with count zero.
func (s *Service) Plan(ctx context.Context, in PlanInput, actor string) (*domain.Broadcast, error) {
	t, err := s.repo.GetTemplate(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(t.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	recipients, err := s.resolver.Resolve(ctx, in.Selector)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	if recipients.Len() == 0 {
		logger.Info("broadcast resolves to zero recipients",
			"template_id", t.ID, "created_by", actor)
	}

	b := &domain.Broadcast{
		ID:             uuid.New().String(),
		TemplateID:     t.ID,
		Tags:           in.Selector.IncludeTags,
		ExcludeTags:    in.Selector.ExcludeTags,
		Intersect:      in.Selector.Intersect,
		SendToAll:      in.Selector.IncludeAll,
		RecipientCount: recipients.Len(),
		Status:         domain.BroadcastPending,
		CreatedBy:      actor,
	}
	id, err := s.repo.CreateBroadcast(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("create dispatch record: %w", err)
	}
	b.ID = id
	return b, nil
}

// ==========================================
// HISTORY
// ==========================================

// ListHistory returns one page of dispatch records and the total match count.
func (s *Service) ListHistory(ctx context.Context, f HistoryFilter) (query.Result[domain.Broadcast], error) {
	if err := f.Page.Validate(); err != nil {
		return query.Result[domain.Broadcast]{}, err
	}
	items, total, err := s.repo.ListHistory(ctx, f)
	if err != nil {
		return query.Result[domain.Broadcast]{}, err
	}
	return query.Result[domain.Broadcast]{Items: items, Total: total}, nil
}

// GetBroadcast returns a single dispatch record.
func (s *Service) GetBroadcast(ctx context.Context, id string) (*domain.Broadcast, error) {
	return s.repo.GetBroadcast(ctx, id)
}
