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
	"github.com/ignite/botconsole/internal/service/questions"
)

var questionSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"topic":      "topic",
}

// QuestionRepo implements questions.Repository against PostgreSQL.
// Localized text lives in a JSONB column; answers and variations are
// stored as JSONB documents alongside it.
type QuestionRepo struct{ db *sql.DB }

// NewQuestionRepo creates a Postgres-backed question repository.
func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{db: db} }

func (r *QuestionRepo) List(ctx context.Context, f questions.ListFilter) ([]domain.Question, int, error) {
	b := query.NewBuilder()
	b.Cond("is_active = TRUE")
	query.Eq(b, "topic", f.Topic)
	query.ContainsFoldLang(b, "text", f.Language, f.Text)
	query.Between(b, "created_at", f.CreatedAt)
	query.Eq(b, "internal", f.Internal)

	var total int
	countQ := "SELECT COUNT(*) FROM questions " + b.Where()
	if err := r.db.QueryRowContext(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, text, topic, keywords, answers, variations, internal,
		       is_active, active_at, expire_at,
		       created_by, updated_by, created_at, updated_at
		FROM questions %s %s LIMIT %s OFFSET %s`,
		b.Where(),
		query.OrderBy(query.ResolveSort(f.Sort, questionSortColumns)),
		b.Arg(f.Page.Limit()), b.Arg(f.Page.Offset()))

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		qu, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *qu)
	}
	return out, total, rows.Err()
}

func (r *QuestionRepo) Get(ctx context.Context, id string) (*domain.Question, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, text, topic, keywords, answers, variations, internal,
		       is_active, active_at, expire_at,
		       created_by, updated_by, created_at, updated_at
		FROM questions
		WHERE id = $1 AND is_active = TRUE
	`, id)
	qu, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, questions.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return qu, nil
}

func (r *QuestionRepo) Create(ctx context.Context, qu *domain.Question) (string, error) {
	if qu.ID == "" {
		qu.ID = uuid.New().String()
	}
	text, answers, variations, err := encodeQuestionDocs(qu.Text, qu.Answers, qu.Variations)
	if err != nil {
		return "", err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO questions
			(id, text, topic, keywords, answers, variations, internal,
			 is_active, active_at, expire_at, created_by, updated_by,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9, $10, $10, NOW(), NOW())
	`, qu.ID, text, qu.Topic, pq.Array(qu.Keywords), answers, variations,
		qu.Internal, qu.ActiveAt, qu.ExpireAt, qu.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("create question: %w", err)
	}
	return qu.ID, nil
}

func (r *QuestionRepo) Update(ctx context.Context, id string, u questions.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Text != nil {
		text, err := json.Marshal(u.Text)
		if err != nil {
			return fmt.Errorf("encode question text: %w", err)
		}
		add("text", text)
	}
	if u.Topic != nil {
		add("topic", *u.Topic)
	}
	if u.Keywords != nil {
		add("keywords", pq.Array(u.Keywords))
	}
	if u.Answers != nil {
		answers, err := json.Marshal(u.Answers)
		if err != nil {
			return fmt.Errorf("encode question answers: %w", err)
		}
		add("answers", answers)
	}
	if u.Variations != nil {
		variations, err := json.Marshal(u.Variations)
		if err != nil {
			return fmt.Errorf("encode question variations: %w", err)
		}
		add("variations", variations)
	}
	if u.ActiveAt != nil {
		add("active_at", *u.ActiveAt)
	}
	if u.ExpireAt != nil {
		add("expire_at", *u.ExpireAt)
	}

	if len(sets) == 0 {
		return nil
	}

	add("updated_by", u.UpdatedBy)
	sets = append(sets, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE questions SET %s WHERE id = $%d AND is_active = TRUE",
		strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return questions.ErrNotFound
	}
	return nil
}

func (r *QuestionRepo) Delete(ctx context.Context, ids []string, actor string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE questions
		SET is_active = FALSE, updated_by = $1, updated_at = NOW()
		WHERE id = ANY($2) AND is_active = TRUE
	`, actor, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func encodeQuestionDocs(text map[string]string, answers []domain.QuestionAnswer, variations []domain.QuestionVariation) ([]byte, []byte, []byte, error) {
	t, err := json.Marshal(text)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode question text: %w", err)
	}
	a, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode question answers: %w", err)
	}
	v, err := json.Marshal(variations)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode question variations: %w", err)
	}
	return t, a, v, nil
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	qu := &domain.Question{}
	var text, answers, variations []byte
	err := row.Scan(
		&qu.ID, &text, &qu.Topic, pq.Array(&qu.Keywords), &answers, &variations,
		&qu.Internal, &qu.IsActive, &qu.ActiveAt, &qu.ExpireAt,
		&qu.CreatedBy, &qu.UpdatedBy, &qu.CreatedAt, &qu.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(text) > 0 {
		if err := json.Unmarshal(text, &qu.Text); err != nil {
			return nil, fmt.Errorf("decode question text: %w", err)
		}
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &qu.Answers); err != nil {
			return nil, fmt.Errorf("decode question answers: %w", err)
		}
	}
	if len(variations) > 0 {
		if err := json.Unmarshal(variations, &qu.Variations); err != nil {
			return nil, fmt.Errorf("decode question variations: %w", err)
		}
	}
	return qu, nil
}
