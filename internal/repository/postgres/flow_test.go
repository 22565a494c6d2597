package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/ignite/botconsole/internal/query"
	"github.com/ignite/botconsole/internal/service/flows"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func flowRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "type", "platforms", "triggered_count", "is_active",
		"created_by", "updated_by", "created_at", "updated_at",
	}).AddRow(
		"f1", []byte(`{"EN":"Welcome","ZH":"欢迎"}`), "onboarding",
		[]byte("{telegram}"), 3, true, "amy", "amy", now, now,
	)
}

func TestFlowListNoFilters(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	// With every option absent, only the liveness guard remains.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM flows WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("(?s)SELECT id, name, type, platforms.+FROM flows WHERE is_active = TRUE ORDER BY created_at DESC, id DESC").
		WithArgs(20, 0).
		WillReturnRows(flowRows())

	repo := NewFlowRepo(db)
	out, total, err := repo.List(context.Background(), flows.ListFilter{
		Language: "EN",
		Page:     query.Page{Number: 1, Size: 20},
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("List() = %d items, total %d; want 1, 1", len(out), total)
	}
	if out[0].Name["EN"] != "Welcome" {
		t.Errorf("Name[EN] = %q, want Welcome", out[0].Name["EN"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFlowListCreatedRange(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM flows WHERE is_active = TRUE AND created_at BETWEEN $1 AND $2`)).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM flows WHERE is_active = TRUE AND created_at BETWEEN \$1 AND \$2`).
		WithArgs(from, to, 20, 0).
		WillReturnRows(flowRows())

	repo := NewFlowRepo(db)
	_, total, err := repo.List(context.Background(), flows.ListFilter{
		Language:  "EN",
		CreatedAt: query.Some(query.Span[time.Time]{From: from, To: to}),
		Page:      query.Page{Number: 1, Size: 20},
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFlowListNameSearchSharesPredicate(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	// Count and fetch must carry the identical ILIKE predicate, with the
	// language key and the escaped pattern bound in that order.
	pattern := `%100\% bonus%`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM flows WHERE is_active = TRUE AND name->>$1 ILIKE $2 ESCAPE '\'`)).
		WithArgs("EN", pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM flows WHERE is_active = TRUE AND name->>\$1 ILIKE \$2 ESCAPE`).
		WithArgs("EN", pattern, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "type", "platforms", "triggered_count", "is_active",
			"created_by", "updated_by", "created_at", "updated_at",
		}))

	repo := NewFlowRepo(db)
	_, total, err := repo.List(context.Background(), flows.ListFilter{
		Name:     query.Some("100% bonus"),
		Language: "EN",
		Page:     query.Page{Number: 1, Size: 10},
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFlowListSortWhitelist(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM flows")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// An unknown sort field falls back to the default ordering.
	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
		WithArgs(20, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "type", "platforms", "triggered_count", "is_active",
			"created_by", "updated_by", "created_at", "updated_at",
		}))

	repo := NewFlowRepo(db)
	_, _, err := repo.List(context.Background(), flows.ListFilter{
		Language: "EN",
		Sort:     query.SortSpec{Field: "name; DROP TABLE flows", Direction: "ascend"},
		Page:     query.Page{Number: 2, Size: 20},
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFlowGetNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM flows").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewFlowRepo(db)
	_, err := repo.Get(context.Background(), "missing")
	if err != flows.ErrNotFound {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFlowUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewFlowRepo(db)
	if err := repo.Update(context.Background(), "f1", flows.UpdateFields{UpdatedBy: "amy"}); err != nil {
		t.Errorf("Update() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected query issued: %v", err)
	}
}

func TestFlowDeleteSoft(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE flows").
		WithArgs("amy", pq.Array([]string{"f1", "f2"})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewFlowRepo(db)
	// One of the two ids is already gone; the delete still succeeds.
	if err := repo.Delete(context.Background(), []string{"f1", "f2"}, "amy"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
