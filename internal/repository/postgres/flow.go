package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/query"
	"github.com/ignite/botconsole/internal/service/flows"
)

// flowSortColumns maps client sort fields to real columns.
var flowSortColumns = map[string]string{
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"triggered_count": "triggered_count",
}

// FlowRepo implements flows.Repository against PostgreSQL. Localized names
// live in a JSONB column keyed by language code.
type FlowRepo struct{ db *sql.DB }

// NewFlowRepo creates a Postgres-backed flow repository.
func NewFlowRepo(db *sql.DB) *FlowRepo { return &FlowRepo{db: db} }

func (r *FlowRepo) List(ctx context.Context, f flows.ListFilter) ([]domain.Flow, int, error) {
	b := query.NewBuilder()
	b.Cond("is_active = TRUE")
	query.ContainsFoldLang(b, "name", f.Language, f.Name)
	query.Between(b, "created_at", f.CreatedAt)
	query.Between(b, "updated_at", f.UpdatedAt)
	query.Between(b, "triggered_count", f.Triggered)

	var total int
	countQ := "SELECT COUNT(*) FROM flows " + b.Where()
	if err := r.db.QueryRowContext(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count flows: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, name, type, platforms, triggered_count, is_active,
		       created_by, updated_by, created_at, updated_at
		FROM flows %s %s LIMIT %s OFFSET %s`,
		b.Where(),
		query.OrderBy(query.ResolveSort(f.Sort, flowSortColumns)),
		b.Arg(f.Page.Limit()), b.Arg(f.Page.Offset()))

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var out []domain.Flow
	for rows.Next() {
		fl, err := scanFlow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *fl)
	}
	return out, total, rows.Err()
}

func (r *FlowRepo) Get(ctx context.Context, id string) (*domain.Flow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, platforms, triggered_count, is_active,
		       created_by, updated_by, created_at, updated_at
		FROM flows
		WHERE id = $1 AND is_active = TRUE
	`, id)
	fl, err := scanFlow(row)
	if err == sql.ErrNoRows {
		return nil, flows.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow: %w", err)
	}
	return fl, nil
}

func (r *FlowRepo) Create(ctx context.Context, fl *domain.Flow) (string, error) {
	if fl.ID == "" {
		fl.ID = uuid.New().String()
	}
	name, err := json.Marshal(fl.Name)
	if err != nil {
		return "", fmt.Errorf("encode flow name: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO flows
			(id, name, type, platforms, triggered_count, is_active,
			 created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, TRUE, $5, $5, NOW(), NOW())
	`, fl.ID, name, fl.Type, pq.Array(fl.Platforms), fl.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("create flow: %w", err)
	}
	return fl.ID, nil
}

func (r *FlowRepo) Update(ctx context.Context, id string, u flows.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Name != nil {
		name, err := json.Marshal(u.Name)
		if err != nil {
			return fmt.Errorf("encode flow name: %w", err)
		}
		add("name", name)
	}
	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.Platforms != nil {
		add("platforms", pq.Array(u.Platforms))
	}

	if len(sets) == 0 {
		return nil
	}

	add("updated_by", u.UpdatedBy)
	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE flows SET %s WHERE id = $%d AND is_active = TRUE",
		strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return flows.ErrNotFound
	}
	return nil
}

func (r *FlowRepo) Delete(ctx context.Context, ids []string, actor string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE flows
		SET is_active = FALSE, updated_by = $1, updated_at = NOW()
		WHERE id = ANY($2) AND is_active = TRUE
	`, actor, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete flows: %w", err)
	}
	return nil
}

func (r *FlowRepo) DistinctValues(ctx context.Context, column string) ([]string, error) {
	// column is resolved through the service whitelist, never client input.
	q := fmt.Sprintf(`
		SELECT DISTINCT v FROM (SELECT %s AS v FROM flows WHERE is_active = TRUE) t
		WHERE v IS NOT NULL AND v <> '' ORDER BY v
	`, column)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("distinct flow values: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan flow value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFlow(row rowScanner) (*domain.Flow, error) {
	fl := &domain.Flow{}
	var name []byte
	err := row.Scan(
		&fl.ID, &name, &fl.Type, pq.Array(&fl.Platforms), &fl.TriggeredCount,
		&fl.IsActive, &fl.CreatedBy, &fl.UpdatedBy, &fl.CreatedAt, &fl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(name) > 0 {
		if err := json.Unmarshal(name, &fl.Name); err != nil {
			return nil, fmt.Errorf("decode flow name: %w", err)
		}
	}
	return fl, nil
}
