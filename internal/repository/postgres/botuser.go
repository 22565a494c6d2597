package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/targeting"
)

// BotUserRepo implements targeting.TagIndex and broadcast.TagDirectory
// against PostgreSQL. Tags are a text[] column, so membership checks stay in
// the database.
type BotUserRepo struct{ db *sql.DB }

// NewBotUserRepo creates a Postgres-backed bot-user repository.
func NewBotUserRepo(db *sql.DB) *BotUserRepo { return &BotUserRepo{db: db} }

func (r *BotUserRepo) UsersWithTag(ctx context.Context, tag string) (targeting.UserSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM bot_users
		WHERE is_active = TRUE AND $1 = ANY(tags)
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("users with tag: %w", err)
	}
	return scanUserSet(rows)
}

func (r *BotUserRepo) AllActiveUserIDs(ctx context.Context) (targeting.UserSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM bot_users WHERE is_active = TRUE
	`)
	if err != nil {
		return nil, fmt.Errorf("all active users: %w", err)
	}
	return scanUserSet(rows)
}

func (r *BotUserRepo) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT unnest(tags) AS tag FROM bot_users
		WHERE is_active = TRUE
		ORDER BY tag
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct tags: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// Recipients loads the full user records for a resolved recipient list, for
// per-recipient template rendering.
func (r *BotUserRepo) Recipients(ctx context.Context, ids []string) ([]domain.BotUser, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, bot_id, platform, chat_user_id, first_name, last_name,
		       language, tags, is_active, created_at, updated_at
		FROM bot_users
		WHERE id = ANY($1) AND is_active = TRUE
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load recipients: %w", err)
	}
	defer rows.Close()

	var out []domain.BotUser
	for rows.Next() {
		u := domain.BotUser{}
		if err := rows.Scan(
			&u.ID, &u.BotID, &u.Platform, &u.ChatUserID, &u.FirstName,
			&u.LastName, &u.Language, pq.Array(&u.Tags), &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUserSet(rows *sql.Rows) (targeting.UserSet, error) {
	defer rows.Close()

	set := targeting.NewUserSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		set[id] = struct{}{}
	}
	return set, rows.Err()
}
