package repositories

import (
	"context"
	"reflect"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestSetBuilderSkipsNilFields(t *testing.T) {
	var b setBuilder
	name := "Talleres Ruiz"
	b.Str("name", &name)
	b.Str("email_p1", nil)
	b.Int("units", nil)
	b.Float("price", nil)

	set, args := b.Clause("p-1")
	if set != "name = ?, updated_at = NOW()" {
		t.Fatalf("set clause = %q", set)
	}
	if want := []any{"Talleres Ruiz", "p-1"}; !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
}

func TestSetBuilderAlwaysAdvancesUpdatedAt(t *testing.T) {
	var b setBuilder
	set, args := b.Clause("p-1")
	if set != "updated_at = NOW()" {
		t.Fatalf("set clause = %q", set)
	}
	if want := []any{"p-1"}; !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
}

func TestProviderUpdateTouchesOnlyPatchedColumns(t *testing.T) {
	db, mock := newMockDB(t)

	phone := "600123456"
	mock.ExpectExec(`^UPDATE providers SET phone = \?, updated_at = NOW\(\) WHERE id = \?$`).
		WithArgs(phone, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := ProviderRepo{DB: db}
	if err := repo.Update(context.Background(), "p-1", ProviderPatch{Phone: &phone}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
