package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type DealershipRepo struct {
	DB *sql.DB
}

const dealershipCols = `id, name, address, city, province, postal_code, email, phone, created_at, updated_at`

func (r DealershipRepo) Insert(ctx context.Context, d domain.Dealership) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO dealerships (`+dealershipCols+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, d.ID, d.Name, d.Address, d.City, d.Province, d.PostalCode, d.Email, d.Phone)
	return err
}

func (r DealershipRepo) GetByID(ctx context.Context, id string) (domain.Dealership, error) {
	var d domain.Dealership
	err := r.DB.QueryRowContext(ctx, `
        SELECT `+dealershipCols+` FROM dealerships WHERE id = ?
    `, id).Scan(&d.ID, &d.Name, &d.Address, &d.City, &d.Province, &d.PostalCode,
		&d.Email, &d.Phone, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r DealershipRepo) FindIDByNameCI(ctx context.Context, name string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx, `
        SELECT id FROM dealerships WHERE LOWER(name) = LOWER(?)
    `, name).Scan(&id)
	return id, err
}

func (r DealershipRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "dealerships", f)
}

func (r DealershipRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Dealership, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx, `
        SELECT `+dealershipCols+` FROM dealerships`+where+`
        ORDER BY created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Dealership{}
	for rows.Next() {
		var d domain.Dealership
		if err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.City, &d.Province,
			&d.PostalCode, &d.Email, &d.Phone, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DealershipPatch carries partial-update fields; nil means "leave unchanged".
type DealershipPatch struct {
	Name       *string
	Address    *string
	City       *string
	Province   *string
	PostalCode *string
	Email      *string
	Phone      *string
}

func (r DealershipRepo) Update(ctx context.Context, id string, p DealershipPatch) error {
	var b setBuilder
	b.Str("name", p.Name)
	b.Str("address", p.Address)
	b.Str("city", p.City)
	b.Str("province", p.Province)
	b.Str("postal_code", p.PostalCode)
	b.Str("email", p.Email)
	b.Str("phone", p.Phone)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE dealerships SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r DealershipRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "dealerships", id)
}
