package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/service/bots"
)

// BotRepo implements bots.Repository against PostgreSQL.
type BotRepo struct{ db *sql.DB }

// NewBotRepo creates a Postgres-backed bot repository.
func NewBotRepo(db *sql.DB) *BotRepo { return &BotRepo{db: db} }

func (r *BotRepo) GetByAbbreviation(ctx context.Context, abbr string) (*domain.Bot, error) {
	b := &domain.Bot{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, abbreviation, platforms, is_active, created_at, updated_at
		FROM bots
		WHERE abbreviation = $1 AND is_active = TRUE
	`, abbr).Scan(
		&b.ID, &b.Name, &b.Abbreviation, pq.Array(&b.Platforms),
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, bots.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bot: %w", err)
	}
	return b, nil
}

func (r *BotRepo) List(ctx context.Context) ([]domain.Bot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, abbreviation, platforms, is_active, created_at, updated_at
		FROM bots
		ORDER BY is_active DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	defer rows.Close()

	var out []domain.Bot
	for rows.Next() {
		b := domain.Bot{}
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Abbreviation, pq.Array(&b.Platforms),
			&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bot: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
