package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
	"github.com/ignite/botconsole/internal/service/broadcast"
)

var templateSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
}

var historySortColumns = map[string]string{
	"created_at":      "created_at",
	"sent_at":         "sent_at",
	"recipient_count": "recipient_count",
}

// BroadcastRepo implements broadcast.Repository against PostgreSQL. It also
// carries the pending-queue methods the dispatch worker runs on.
type BroadcastRepo struct{ db *sql.DB }

// NewBroadcastRepo creates a Postgres-backed broadcast repository.
func NewBroadcastRepo(db *sql.DB) *BroadcastRepo { return &BroadcastRepo{db: db} }

func (r *BroadcastRepo) ListTemplates(ctx context.Context, f broadcast.TemplateFilter) ([]domain.BroadcastTemplate, int, error) {
	b := query.NewBuilder()
	b.Cond("is_active = TRUE")
	query.ContainsFold(b, "name", f.Name)
	if vs, ok := f.Flows.Get(); ok && f.Intersect && len(vs) > 1 {
		// A template attaches to a single flow, so requiring several can
		// never match.
		b.Cond("FALSE")
	} else {
		query.In(b, "flow_id", f.Flows)
	}
	if p, ok := f.Platform.Get(); ok {
		b.Cond(fmt.Sprintf("%s = ANY(platforms)", b.Arg(p)))
	}

	var total int
	countQ := "SELECT COUNT(*) FROM broadcast_templates " + b.Where()
	if err := r.db.QueryRowContext(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, name, platforms, flow_id, content, is_active,
		       created_by, updated_by, created_at, updated_at
		FROM broadcast_templates %s %s LIMIT %s OFFSET %s`,
		b.Where(),
		query.OrderBy(query.ResolveSort(f.Sort, templateSortColumns)),
		b.Arg(f.Page.Limit()), b.Arg(f.Page.Offset()))

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []domain.BroadcastTemplate
	for rows.Next() {
		t := domain.BroadcastTemplate{}
		if err := rows.Scan(
			&t.ID, &t.Name, pq.Array(&t.Platforms), &t.FlowID, &t.Content,
			&t.IsActive, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *BroadcastRepo) GetTemplate(ctx context.Context, id string) (*domain.BroadcastTemplate, error) {
	t := &domain.BroadcastTemplate{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, platforms, flow_id, content, is_active,
		       created_by, updated_by, created_at, updated_at
		FROM broadcast_templates
		WHERE id = $1 AND is_active = TRUE
	`, id).Scan(
		&t.ID, &t.Name, pq.Array(&t.Platforms), &t.FlowID, &t.Content,
		&t.IsActive, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, broadcast.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (r *BroadcastRepo) CreateTemplate(ctx context.Context, t *domain.BroadcastTemplate) (string, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO broadcast_templates
			(id, name, platforms, flow_id, content, is_active,
			 created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6, NOW(), NOW())
	`, t.ID, t.Name, pq.Array(t.Platforms), t.FlowID, t.Content, t.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("create template: %w", err)
	}
	return t.ID, nil
}

func (r *BroadcastRepo) UpdateTemplate(ctx context.Context, id string, u broadcast.TemplateUpdate) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Platforms != nil {
		add("platforms", pq.Array(u.Platforms))
	}
	if u.FlowID != nil {
		add("flow_id", *u.FlowID)
	}
	if u.Content != nil {
		add("content", *u.Content)
	}

	if len(sets) == 0 {
		return nil
	}

	add("updated_by", u.UpdatedBy)
	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE broadcast_templates SET %s WHERE id = $%d AND is_active = TRUE",
		strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return broadcast.ErrNotFound
	}
	return nil
}

func (r *BroadcastRepo) DeleteTemplate(ctx context.Context, id, actor string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE broadcast_templates
		SET is_active = FALSE, updated_by = $1, updated_at = NOW()
		WHERE id = $2 AND is_active = TRUE
	`, actor, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return broadcast.ErrNotFound
	}
	return nil
}

func (r *BroadcastRepo) TemplateDispatched(ctx context.Context, id string) (bool, error) {
	var dispatched bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM broadcasts WHERE template_id = $1)
	`, id).Scan(&dispatched)
	if err != nil {
		return false, fmt.Errorf("check template dispatched: %w", err)
	}
	return dispatched, nil
}

func (r *BroadcastRepo) ListHistory(ctx context.Context, f broadcast.HistoryFilter) ([]domain.Broadcast, int, error) {
	b := query.NewBuilder()
	if f.Intersect {
		query.ContainsAll(b, "tags", f.Tags)
	} else {
		query.Overlaps(b, "tags", f.Tags)
	}
	query.Eq(b, "status", f.Status)

	var total int
	countQ := "SELECT COUNT(*) FROM broadcasts " + b.Where()
	if err := r.db.QueryRowContext(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count broadcasts: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, template_id, tags, exclude_tags, intersect_tags, send_to_all,
		       recipient_count, sent_count, failed_count, status, sent_at,
		       created_by, created_at
		FROM broadcasts %s %s LIMIT %s OFFSET %s`,
		b.Where(),
		query.OrderBy(query.ResolveSort(f.Sort, historySortColumns)),
		b.Arg(f.Page.Limit()), b.Arg(f.Page.Offset()))

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list broadcasts: %w", err)
	}
	defer rows.Close()

	var out []domain.Broadcast
	for rows.Next() {
		bc, err := scanBroadcast(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan broadcast: %w", err)
		}
		out = append(out, *bc)
	}
	return out, total, rows.Err()
}

func (r *BroadcastRepo) GetBroadcast(ctx context.Context, id string) (*domain.Broadcast, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template_id, tags, exclude_tags, intersect_tags, send_to_all,
		       recipient_count, sent_count, failed_count, status, sent_at,
		       created_by, created_at
		FROM broadcasts
		WHERE id = $1
	`, id)
	bc, err := scanBroadcast(row)
	if err == sql.ErrNoRows {
		return nil, broadcast.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get broadcast: %w", err)
	}
	return bc, nil
}

func (r *BroadcastRepo) CreateBroadcast(ctx context.Context, bc *domain.Broadcast) (string, error) {
	if bc.ID == "" {
		bc.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO broadcasts
			(id, template_id, tags, exclude_tags, intersect_tags, send_to_all,
			 recipient_count, sent_count, failed_count, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8, $9, NOW())
	`, bc.ID, bc.TemplateID, pq.Array(bc.Tags), pq.Array(bc.ExcludeTags),
		bc.Intersect, bc.SendToAll, bc.RecipientCount, bc.Status, bc.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("create broadcast: %w", err)
	}
	return bc.ID, nil
}

// PendingBroadcasts returns up to limit broadcasts still waiting for
// dispatch, oldest first.
func (r *BroadcastRepo) PendingBroadcasts(ctx context.Context, limit int) ([]domain.Broadcast, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_id, tags, exclude_tags, intersect_tags, send_to_all,
		       recipient_count, sent_count, failed_count, status, sent_at,
		       created_by, created_at
		FROM broadcasts
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending broadcasts: %w", err)
	}
	defer rows.Close()

	var out []domain.Broadcast
	for rows.Next() {
		bc, err := scanBroadcast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending broadcast: %w", err)
		}
		out = append(out, *bc)
	}
	return out, rows.Err()
}

// MarkDispatched moves a pending broadcast to a terminal state. The status
// guard keeps the transition one-way; a broadcast already settled by another
// worker is left alone.
func (r *BroadcastRepo) MarkDispatched(ctx context.Context, id string, status domain.BroadcastStatus, sent, failed int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE broadcasts
		SET status = $1, sent_count = $2, failed_count = $3, sent_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`, status, sent, failed, id)
	if err != nil {
		return fmt.Errorf("mark broadcast dispatched: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return broadcast.ErrRecordNotFound
	}
	return nil
}

func scanBroadcast(row rowScanner) (*domain.Broadcast, error) {
	bc := &domain.Broadcast{}
	err := row.Scan(
		&bc.ID, &bc.TemplateID, pq.Array(&bc.Tags), pq.Array(&bc.ExcludeTags),
		&bc.Intersect, &bc.SendToAll, &bc.RecipientCount, &bc.SentCount,
		&bc.FailedCount, &bc.Status, &bc.SentAt, &bc.CreatedBy, &bc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bc, nil
}
