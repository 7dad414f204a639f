package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type IncidenceRepo struct {
	DB *sql.DB
}

const incidenceSelect = `
    SELECT n.id, n.number, n.incidence_type_id, t.name, n.dealership_id, d.name,
           n.installation_id, i.name, n.description, n.state,
           n.created_at, n.updated_at
    FROM incidences n
    LEFT JOIN incidence_types t ON t.id = n.incidence_type_id
    LEFT JOIN dealerships d ON d.id = n.dealership_id
    LEFT JOIN installations i ON i.id = n.installation_id`

func scanIncidence(row interface{ Scan(...any) error }) (domain.Incidence, error) {
	var (
		inc              domain.Incidence
		typeID, typeName sql.NullString
		dealID, dealName sql.NullString
		instID, instName sql.NullString
	)
	err := row.Scan(&inc.ID, &inc.Number, &typeID, &typeName, &dealID, &dealName,
		&instID, &instName, &inc.Description, &inc.State, &inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		return inc, err
	}
	inc.IncidenceType = scanRef(typeID, typeName)
	inc.Dealership = scanRef(dealID, dealName)
	inc.Installation = scanRefPtr(instID, instName)
	return inc, nil
}

func (r IncidenceRepo) Insert(ctx context.Context, inc domain.Incidence) error {
	var installation any
	if inc.Installation != nil {
		installation = inc.Installation.ID
	}
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO incidences (id, number, incidence_type_id, dealership_id, installation_id, description, state, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, inc.ID, inc.Number, inc.IncidenceType.ID, inc.Dealership.ID, installation, inc.Description, inc.State)
	return err
}

func (r IncidenceRepo) GetByID(ctx context.Context, id string) (domain.Incidence, error) {
	return scanIncidence(r.DB.QueryRowContext(ctx, incidenceSelect+` WHERE n.id = ?`, id))
}

func (r IncidenceRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "incidences n", f)
}

func (r IncidenceRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Incidence, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		incidenceSelect+where+` ORDER BY n.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Incidence{}
	for rows.Next() {
		inc, err := scanIncidence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// IncidencePatch carries updatable incidence fields; the number is immutable.
type IncidencePatch struct {
	IncidenceType *string
	Dealership    *string
	Installation  *string
	Description   *string
	State         *string
}

func (r IncidenceRepo) Update(ctx context.Context, id string, p IncidencePatch) error {
	var b setBuilder
	b.Str("incidence_type_id", p.IncidenceType)
	b.Str("dealership_id", p.Dealership)
	if p.Installation != nil {
		if *p.Installation == "" {
			b.Raw("installation_id", nil)
		} else {
			b.Raw("installation_id", *p.Installation)
		}
	}
	b.Str("description", p.Description)
	b.Str("state", p.State)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE incidences SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r IncidenceRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "incidences", id)
}
