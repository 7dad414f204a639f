// Package repositories holds the raw-SQL data access layer. Every repo is a
// small struct around an injected *sql.DB; reference fields are expanded at
// read time by joining the referenced table for its name.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

// Referenceable collections, as used by the existence resolver.
const (
	TableRoles           = "roles"
	TableIncidenceTypes  = "incidence_types"
	TableProductFamilies = "product_families"
	TableDealerships     = "dealerships"
	TableInstallations   = "installations"
	TableProviders       = "providers"
	TableProducts        = "products"
)

var refTables = map[string]bool{
	TableRoles:           true,
	TableIncidenceTypes:  true,
	TableProductFamilies: true,
	TableDealerships:     true,
	TableInstallations:   true,
	TableProviders:       true,
	TableProducts:        true,
}

// Exists confirms a referenced document is present. Callers must have
// validated the identifier shape first.
func Exists(ctx context.Context, db *sql.DB, table, id string) (bool, error) {
	if !refTables[table] {
		return false, fmt.Errorf("exists: unknown collection %q", table)
	}
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// countRows runs the filtered COUNT backing the pagination engine.
func countRows(ctx context.Context, db *sql.DB, from string, f Filters) (int, error) {
	where, args := f.Where()
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+from+where, args...).Scan(&n)
	return n, err
}

// deleteRow removes one document, reporting whether it existed.
func deleteRow(ctx context.Context, db *sql.DB, table, id string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// windowClause appends the LIMIT/OFFSET derived by the pagination engine;
// a zero window means unpaged.
func windowClause(w paginate.Window) string {
	if w.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", w.Limit, w.Skip)
}

// setBuilder assembles partial-update SET clauses; nil fields are skipped
// so absent request fields leave the stored document unchanged. updated_at
// always advances.
type setBuilder struct {
	set  []string
	args []any
}

func (b *setBuilder) Str(col string, v *string) {
	if v != nil {
		b.Raw(col, *v)
	}
}

func (b *setBuilder) Int(col string, v *int) {
	if v != nil {
		b.Raw(col, *v)
	}
}

func (b *setBuilder) Float(col string, v *float64) {
	if v != nil {
		b.Raw(col, *v)
	}
}

func (b *setBuilder) Raw(col string, v any) {
	b.set = append(b.set, col+" = ?")
	b.args = append(b.args, v)
}

func (b *setBuilder) Clause(id string) (string, []any) {
	set := append(b.set, "updated_at = NOW()")
	return strings.Join(set, ", "), append(b.args, id)
}

func scanRef(id, name sql.NullString) domain.Ref {
	return domain.Ref{ID: id.String, Name: name.String}
}

func scanRefPtr(id, name sql.NullString) *domain.Ref {
	if !id.Valid || id.String == "" {
		return nil
	}
	r := scanRef(id, name)
	return &r
}
