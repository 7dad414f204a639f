package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type InstallationRepo struct {
	DB *sql.DB
}

const installationSelect = `
    SELECT i.id, i.name, i.dealership_id, d.name, i.type, i.address, i.surface,
           i.created_at, i.updated_at
    FROM installations i
    LEFT JOIN dealerships d ON d.id = i.dealership_id`

func scanInstallation(row interface{ Scan(...any) error }) (domain.Installation, error) {
	var (
		i                domain.Installation
		dealID, dealName sql.NullString
	)
	err := row.Scan(&i.ID, &i.Name, &dealID, &dealName, &i.Type, &i.Address,
		&i.Surface, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return i, err
	}
	i.Dealership = scanRef(dealID, dealName)
	return i, nil
}

func (r InstallationRepo) Insert(ctx context.Context, i domain.Installation) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO installations (id, name, dealership_id, type, address, surface, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, i.ID, i.Name, i.Dealership.ID, i.Type, i.Address, i.Surface)
	return err
}

func (r InstallationRepo) GetByID(ctx context.Context, id string) (domain.Installation, error) {
	return scanInstallation(r.DB.QueryRowContext(ctx, installationSelect+` WHERE i.id = ?`, id))
}

func (r InstallationRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "installations i", f)
}

func (r InstallationRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Installation, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		installationSelect+where+` ORDER BY i.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Installation{}
	for rows.Next() {
		i, err := scanInstallation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

type InstallationPatch struct {
	Name       *string
	Dealership *string
	Type       *string
	Address    *string
	Surface    *float64
}

func (r InstallationRepo) Update(ctx context.Context, id string, p InstallationPatch) error {
	var b setBuilder
	b.Str("name", p.Name)
	b.Str("dealership_id", p.Dealership)
	b.Str("type", p.Type)
	b.Str("address", p.Address)
	b.Float("surface", p.Surface)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE installations SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r InstallationRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "installations", id)
}
