package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"standards-backend/internal/paginate"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestLookupRepoGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := LookupRepo{DB: db, Table: TableRoles}

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM roles").
		WithArgs("64a1f0c2e8b4d6a3f1c0e9b7").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("64a1f0c2e8b4d6a3f1c0e9b7", "admin", now, now))

	l, err := repo.GetByID(context.Background(), "64a1f0c2e8b4d6a3f1c0e9b7")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if l.Name != "admin" {
		t.Fatalf("name = %q, want admin", l.Name)
	}
}

func TestLookupRepoListAppliesFilterAndWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := LookupRepo{DB: db, Table: TableIncidenceTypes}

	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, created_at, updated_at FROM incidence_types WHERE LOWER\(name\) LIKE \? ORDER BY created_at DESC LIMIT 10 OFFSET 10`).
		WithArgs("%rotul%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("64a1f0c2e8b4d6a3f1c0e9b7", "Rotulación", now, now))

	var f Filters
	f.Like("name", "Rotul")
	out, err := repo.List(context.Background(), f, paginate.Window{Skip: 10, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Rotulación" {
		t.Fatalf("unexpected result %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLookupRepoDeleteReportsExistence(t *testing.T) {
	db, mock := newMockDB(t)
	repo := LookupRepo{DB: db, Table: TableProductFamilies}

	mock.ExpectExec("DELETE FROM product_families").
		WithArgs("64a1f0c2e8b4d6a3f1c0e9b7").
		WillReturnResult(sqlmock.NewResult(0, 0))

	existed, err := repo.Delete(context.Background(), "64a1f0c2e8b4d6a3f1c0e9b7")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if existed {
		t.Fatal("expected existed = false for zero affected rows")
	}
}

func TestExistsRejectsUnknownCollection(t *testing.T) {
	db, _ := newMockDB(t)
	if _, err := Exists(context.Background(), db, "admins", "64a1f0c2e8b4d6a3f1c0e9b7"); err == nil {
		t.Fatal("expected error for non-referenceable collection")
	}
}
