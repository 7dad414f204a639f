package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type AuditRepo struct {
	DB *sql.DB
}

const auditSelect = `
    SELECT a.id, a.dealership_id, d.name, a.installation_id, i.name,
           a.auditor, a.date, a.score, a.status, COALESCE(a.comments, ''),
           a.created_at, a.updated_at
    FROM audits a
    LEFT JOIN dealerships d ON d.id = a.dealership_id
    LEFT JOIN installations i ON i.id = a.installation_id`

func scanAudit(row interface{ Scan(...any) error }) (domain.Audit, error) {
	var (
		a                domain.Audit
		dealID, dealName sql.NullString
		instID, instName sql.NullString
	)
	err := row.Scan(&a.ID, &dealID, &dealName, &instID, &instName,
		&a.Auditor, &a.Date, &a.Score, &a.Status, &a.Comments, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.Dealership = scanRef(dealID, dealName)
	a.Installation = scanRefPtr(instID, instName)
	return a, nil
}

func (r AuditRepo) Insert(ctx context.Context, a domain.Audit) error {
	var installation any
	if a.Installation != nil {
		installation = a.Installation.ID
	}
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO audits (id, dealership_id, installation_id, auditor, date, score, status, comments, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, a.ID, a.Dealership.ID, installation, a.Auditor, a.Date, a.Score, a.Status, a.Comments)
	return err
}

func (r AuditRepo) GetByID(ctx context.Context, id string) (domain.Audit, error) {
	return scanAudit(r.DB.QueryRowContext(ctx, auditSelect+` WHERE a.id = ?`, id))
}

func (r AuditRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "audits a", f)
}

func (r AuditRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Audit, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		auditSelect+where+` ORDER BY a.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Audit{}
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type AuditPatch struct {
	Dealership   *string
	Installation *string
	Auditor      *string
	Date         *string
	Score        *int
	Status       *string
	Comments     *string
}

func (r AuditRepo) Update(ctx context.Context, id string, p AuditPatch) error {
	var b setBuilder
	b.Str("dealership_id", p.Dealership)
	if p.Installation != nil {
		if *p.Installation == "" {
			b.Raw("installation_id", nil)
		} else {
			b.Raw("installation_id", *p.Installation)
		}
	}
	b.Str("auditor", p.Auditor)
	b.Str("date", p.Date)
	b.Int("score", p.Score)
	b.Str("status", p.Status)
	b.Str("comments", p.Comments)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE audits SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r AuditRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "audits", id)
}
