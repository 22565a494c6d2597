package broadcast_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
	"github.com/ignite/botconsole/internal/service/broadcast"
	"github.com/ignite/botconsole/internal/targeting"
)

// memRepo is an in-memory broadcast repository for unit testing.
type memRepo struct {
	mu         sync.Mutex
	templates  map[string]*domain.BroadcastTemplate
	broadcasts map[string]*domain.Broadcast
}

func newMemRepo() *memRepo {
	return &memRepo{
		templates:  make(map[string]*domain.BroadcastTemplate),
		broadcasts: make(map[string]*domain.Broadcast),
	}
}

func (m *memRepo) ListTemplates(_ context.Context, f broadcast.TemplateFilter) ([]domain.BroadcastTemplate, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BroadcastTemplate
	for _, t := range m.templates {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) GetTemplate(_ context.Context, id string) (*domain.BroadcastTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok || !t.IsActive {
		return nil, broadcast.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) CreateTemplate(_ context.Context, t *domain.BroadcastTemplate) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.templates[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) UpdateTemplate(_ context.Context, id string, u broadcast.TemplateUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return broadcast.ErrNotFound
	}
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Content != nil {
		t.Content = *u.Content
	}
	t.UpdatedBy = u.UpdatedBy
	return nil
}

func (m *memRepo) DeleteTemplate(_ context.Context, id, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return broadcast.ErrNotFound
	}
	t.IsActive = false
	return nil
}

func (m *memRepo) TemplateDispatched(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.broadcasts {
		if b.TemplateID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListHistory(_ context.Context, f broadcast.HistoryFilter) ([]domain.Broadcast, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Broadcast
	for _, b := range m.broadcasts {
		if status, ok := f.Status.Get(); ok && string(b.Status) != status {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (m *memRepo) GetBroadcast(_ context.Context, id string) (*domain.Broadcast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.broadcasts[id]
	if !ok {
		return nil, broadcast.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memRepo) CreateBroadcast(_ context.Context, b *domain.Broadcast) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.broadcasts[cp.ID] = &cp
	return cp.ID, nil
}

// memTags is an in-memory tag index and directory.
type memTags struct {
	byTag   map[string][]string
	active  []string
	lookups int
}

func (m *memTags) UsersWithTag(_ context.Context, tag string) (targeting.UserSet, error) {
	m.lookups++
	return targeting.NewUserSet(m.byTag[tag]...), nil
}

func (m *memTags) AllActiveUserIDs(_ context.Context) (targeting.UserSet, error) {
	m.lookups++
	return targeting.NewUserSet(m.active...), nil
}

func (m *memTags) DistinctTags(_ context.Context) ([]string, error) {
	var tags []string
	for t := range m.byTag {
		tags = append(tags, t)
	}
	return tags, nil
}

// liquidStub validates like the real engine: rejects blank content and
// unbalanced tags.
type liquidStub struct{}

func (liquidStub) Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("template content is empty")
	}
	if strings.Count(content, "{{") != strings.Count(content, "}}") {
		return errors.New("unbalanced tags")
	}
	return nil
}

func newTestService() (*broadcast.Service, *memRepo, *memTags) {
	repo := newMemRepo()
	tags := &memTags{
		byTag: map[string][]string{
			"vip": {"A", "B"},
			"new": {"A", "C"},
		},
		active: []string{"A", "B", "C", "D"},
	}
	svc := broadcast.NewService(repo, tags, targeting.NewResolver(tags), liquidStub{})
	return svc, repo, tags
}

func mustTemplate(t *testing.T, svc *broadcast.Service, content string) *domain.BroadcastTemplate {
	t.Helper()
	tpl, err := svc.CreateTemplate(context.Background(), broadcast.TemplateInput{
		Name: "greeting", Content: content,
	}, "op-1")
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tpl
}

func TestPlanPendingRecord(t *testing.T) {
	svc, _, _ := newTestService()
	tpl := mustTemplate(t, svc, "Hi {{ first_name }}")

	b, err := svc.Plan(context.Background(), broadcast.PlanInput{
		TemplateID: tpl.ID,
		Selector:   targeting.Selector{IncludeTags: []string{"vip", "new"}, Intersect: true},
	}, "op-1")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if b.Status != domain.BroadcastPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.RecipientCount != 1 { // only A holds both vip and new
		t.Fatalf("expected 1 recipient, got %d", b.RecipientCount)
	}
	if b.IsTerminal() {
		t.Fatal("pending record must not be terminal")
	}
}

func TestPlanEmptyRecipientSetIsValid(t *testing.T) {
	svc, repo, _ := newTestService()
	tpl := mustTemplate(t, svc, "Hello")

	b, err := svc.Plan(context.Background(), broadcast.PlanInput{
		TemplateID: tpl.ID,
		Selector:   targeting.Selector{}, // no tags, no send-to-all
	}, "op-1")
	if err != nil {
		t.Fatalf("empty recipient set must not error: %v", err)
	}
	if b.RecipientCount != 0 || b.Status != domain.BroadcastPending {
		t.Fatalf("expected pending record with 0 recipients, got %+v", b)
	}
	if len(repo.broadcasts) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(repo.broadcasts))
	}
}

func TestPlanValidationShortCircuits(t *testing.T) {
	svc, repo, tags := newTestService()
	tpl := mustTemplate(t, svc, "ok")
	// Corrupt the stored content past the create-time validation.
	repo.templates[tpl.ID].Content = "Hi {{ first_name"

	before := tags.lookups
	_, err := svc.Plan(context.Background(), broadcast.PlanInput{
		TemplateID: tpl.ID,
		Selector:   targeting.Selector{IncludeAll: true},
	}, "op-1")
	if !errors.Is(err, broadcast.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if tags.lookups != before {
		t.Fatal("validation failure must not resolve recipients")
	}
	if len(repo.broadcasts) != 0 {
		t.Fatal("no dispatch record may be created on validation failure")
	}
}

func TestPlanUnknownTemplate(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Plan(context.Background(), broadcast.PlanInput{TemplateID: "nope"}, "op-1")
	if err != broadcast.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlanEachCallCreatesOneRecord(t *testing.T) {
	svc, repo, _ := newTestService()
	tpl := mustTemplate(t, svc, "Hello")
	in := broadcast.PlanInput{
		TemplateID: tpl.ID,
		Selector:   targeting.Selector{IncludeTags: []string{"vip"}},
	}

	// Resubmission is not deduplicated: two plans, two independent records.
	for i := 0; i < 2; i++ {
		if _, err := svc.Plan(context.Background(), in, "op-1"); err != nil {
			t.Fatalf("plan %d: %v", i, err)
		}
	}
	if len(repo.broadcasts) != 2 {
		t.Fatalf("expected 2 records, got %d", len(repo.broadcasts))
	}
}

func TestTemplateImmutableAfterDispatch(t *testing.T) {
	svc, _, _ := newTestService()
	tpl := mustTemplate(t, svc, "Hello")

	if _, err := svc.Plan(context.Background(), broadcast.PlanInput{
		TemplateID: tpl.ID,
		Selector:   targeting.Selector{IncludeTags: []string{"vip"}},
	}, "op-1"); err != nil {
		t.Fatalf("plan: %v", err)
	}

	err := svc.UpdateTemplate(context.Background(), tpl.ID, broadcast.TemplateInput{
		Name: "new name", Content: "Changed",
	}, "op-1")
	if err != broadcast.ErrTemplateLocked {
		t.Fatalf("expected ErrTemplateLocked on update, got %v", err)
	}
	if err := svc.DeleteTemplate(context.Background(), tpl.ID, "op-1"); err != broadcast.ErrTemplateLocked {
		t.Fatalf("expected ErrTemplateLocked on delete, got %v", err)
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateTemplate(context.Background(), broadcast.TemplateInput{
		Name: "bad", Content: "Hi {{ first_name",
	}, "op-1")
	if !errors.Is(err, broadcast.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = svc.CreateTemplate(context.Background(), broadcast.TemplateInput{Content: "ok"}, "op-1")
	if !errors.Is(err, broadcast.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing name, got %v", err)
	}
}

func TestResolveRecipientsPreview(t *testing.T) {
	svc, _, _ := newTestService()
	ids, err := svc.ResolveRecipients(context.Background(), targeting.Selector{
		IncludeAll:  true,
		ExcludeTags: []string{"new"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Active {A,B,C,D} minus new {A,C}.
	if len(ids) != 2 || ids[0] != "B" || ids[1] != "D" {
		t.Fatalf("expected [B D], got %v", ids)
	}
}

func TestListHistoryInvalidPage(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.ListHistory(context.Background(), broadcast.HistoryFilter{
		Page: query.Page{Number: 0, Size: 10},
	})
	if err != query.ErrInvalidPage {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}
