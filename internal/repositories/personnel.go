package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type PersonnelRepo struct {
	DB *sql.DB
}

const personnelSelect = `
    SELECT p.id, p.name, p.surname, p.dni, p.email, p.phone, p.position,
           p.dealership_id, d.name, p.installation_id, i.name,
           p.created_at, p.updated_at
    FROM personnel p
    LEFT JOIN dealerships d ON d.id = p.dealership_id
    LEFT JOIN installations i ON i.id = p.installation_id`

func scanPersonnel(row interface{ Scan(...any) error }) (domain.Personnel, error) {
	var (
		p                domain.Personnel
		dealID, dealName sql.NullString
		instID, instName sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Surname, &p.DNI, &p.Email, &p.Phone,
		&p.Position, &dealID, &dealName, &instID, &instName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Dealership = scanRef(dealID, dealName)
	p.Installation = scanRefPtr(instID, instName)
	return p, nil
}

func (r PersonnelRepo) Insert(ctx context.Context, p domain.Personnel) error {
	var installation any
	if p.Installation != nil {
		installation = p.Installation.ID
	}
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO personnel (id, name, surname, dni, email, phone, position, dealership_id, installation_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, p.ID, p.Name, p.Surname, p.DNI, p.Email, p.Phone, p.Position, p.Dealership.ID, installation)
	return err
}

func (r PersonnelRepo) GetByID(ctx context.Context, id string) (domain.Personnel, error) {
	return scanPersonnel(r.DB.QueryRowContext(ctx, personnelSelect+` WHERE p.id = ?`, id))
}

func (r PersonnelRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "personnel p", f)
}

func (r PersonnelRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Personnel, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		personnelSelect+where+` ORDER BY p.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Personnel{}
	for rows.Next() {
		p, err := scanPersonnel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type PersonnelPatch struct {
	Name         *string
	Surname      *string
	DNI          *string
	Email        *string
	Phone        *string
	Position     *string
	Dealership   *string
	Installation *string
}

func (r PersonnelRepo) Update(ctx context.Context, id string, p PersonnelPatch) error {
	var b setBuilder
	b.Str("name", p.Name)
	b.Str("surname", p.Surname)
	b.Str("dni", p.DNI)
	b.Str("email", p.Email)
	b.Str("phone", p.Phone)
	b.Str("position", p.Position)
	b.Str("dealership_id", p.Dealership)
	if p.Installation != nil {
		if *p.Installation == "" {
			b.Raw("installation_id", nil)
		} else {
			b.Raw("installation_id", *p.Installation)
		}
	}

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE personnel SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r PersonnelRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "personnel", id)
}
