package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

// LookupRepo serves the id+name lookup collections (roles, incidence types,
// product families) with one implementation parameterized by table.
type LookupRepo struct {
	DB    *sql.DB
	Table string
}

func (r LookupRepo) Insert(ctx context.Context, l domain.Lookup) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO `+r.Table+` (id, name, created_at, updated_at)
        VALUES (?, ?, NOW(), NOW())
    `, l.ID, l.Name)
	return err
}

func (r LookupRepo) GetByID(ctx context.Context, id string) (domain.Lookup, error) {
	var l domain.Lookup
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, name, created_at, updated_at FROM `+r.Table+` WHERE id = ?
    `, id).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// FindIDByNameCI returns the id of the document whose name matches
// case-insensitively, or sql.ErrNoRows.
func (r LookupRepo) FindIDByNameCI(ctx context.Context, name string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx, `
        SELECT id FROM `+r.Table+` WHERE LOWER(name) = LOWER(?)
    `, name).Scan(&id)
	return id, err
}

func (r LookupRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, r.Table, f)
}

func (r LookupRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Lookup, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, name, created_at, updated_at FROM `+r.Table+where+`
        ORDER BY created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Lookup{}
	for rows.Next() {
		var l domain.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r LookupRepo) Update(ctx context.Context, id, name string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE `+r.Table+` SET name = ?, updated_at = NOW() WHERE id = ?
    `, name, id)
	return err
}

func (r LookupRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, r.Table, id)
}
