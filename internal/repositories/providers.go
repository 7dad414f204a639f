package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type ProviderRepo struct {
	DB *sql.DB
}

const providerCols = `id, name, email_p1, email_p2, phone, address, created_at, updated_at`

func (r ProviderRepo) Insert(ctx context.Context, p domain.Provider) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO providers (`+providerCols+`)
        VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, p.ID, p.Name, p.EmailP1, p.EmailP2, p.Phone, p.Address)
	return err
}

func (r ProviderRepo) GetByID(ctx context.Context, id string) (domain.Provider, error) {
	var p domain.Provider
	err := r.DB.QueryRowContext(ctx, `
        SELECT `+providerCols+` FROM providers WHERE id = ?
    `, id).Scan(&p.ID, &p.Name, &p.EmailP1, &p.EmailP2, &p.Phone, &p.Address,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r ProviderRepo) FindIDByNameCI(ctx context.Context, name string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM providers WHERE LOWER(name) = LOWER(?)`, name).Scan(&id)
	return id, err
}

func (r ProviderRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "providers", f)
}

func (r ProviderRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Provider, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx, `
        SELECT `+providerCols+` FROM providers`+where+`
        ORDER BY created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Provider{}
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.EmailP1, &p.EmailP2, &p.Phone,
			&p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type ProviderPatch struct {
	Name    *string
	EmailP1 *string
	EmailP2 *string
	Phone   *string
	Address *string
}

func (r ProviderRepo) Update(ctx context.Context, id string, p ProviderPatch) error {
	var b setBuilder
	b.Str("name", p.Name)
	b.Str("email_p1", p.EmailP1)
	b.Str("email_p2", p.EmailP2)
	b.Str("phone", p.Phone)
	b.Str("address", p.Address)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE providers SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r ProviderRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "providers", id)
}
